// Package config defines shared timeout constants.
//
// Timeouts are layered so an inner boundary always expires before the outer
// one that wraps it: LLM and upstream calls must finish inside a single
// pipeline invocation, and the pipeline must finish inside the HTTP write
// timeout.
package config

import "time"

const (
	// WarehouseQuery bounds a single ClickHouse query.
	WarehouseQuery = 30 * time.Second

	// UpstreamQuery bounds a single SmartCare history lookup.
	UpstreamQuery = 30 * time.Second

	// UpstreamToken bounds an access-token request.
	UpstreamToken = 10 * time.Second

	// LLMRequest bounds a single LLM call (classification, enhancement,
	// text improvement). Short because every LLM path has a local fallback.
	LLMRequest = 10 * time.Second

	// PipelineProcessing bounds one full query pipeline invocation.
	PipelineProcessing = 90 * time.Second

	// HTTPRead is the server-wide request read timeout.
	HTTPRead = 10 * time.Second

	// HTTPWrite must exceed PipelineProcessing so slow pipelines can still
	// write their response.
	HTTPWrite = 100 * time.Second

	// HTTPIdle closes keep-alive connections that go quiet.
	HTTPIdle = 120 * time.Second
)
