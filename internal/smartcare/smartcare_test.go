package smartcare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telcoinsight/keluhan-bot-go/internal/timeexpr"
)

type fakeQuerier struct {
	resp      *HistoryResponse
	err       error
	called    bool
	gotMSISDN string
	gotStart  string
	gotEnd    string
}

func (f *fakeQuerier) QueryHistory(_ context.Context, apiMSISDN, startTime, endTime string) (*HistoryResponse, error) {
	f.called = true
	f.gotMSISDN = apiMSISDN
	f.gotStart = startTime
	f.gotEnd = endTime
	return f.resp, f.err
}

func sampleHistory() *HistoryResponse {
	return &HistoryResponse{History: []HistoryEntry{
		{Text: "2025-07-01 09:00", TotalTraffic: 0, TotalScore: 0, TotalLatency: 0},
		{Text: "2025-07-01 10:00", TotalTraffic: 150, TotalScore: 85, TotalLatency: 25},
		{Text: "2025-07-01 11:00", TotalTraffic: 40, TotalScore: 90, TotalLatency: 35},
	}}
}

func newTestService(querier HistoryQuerier) *Service {
	s := NewService(querier, timeexpr.NewResolver(nil))
	s.now = func() time.Time {
		return time.Date(2025, 7, 1, 14, 0, 0, 0, time.Local)
	}
	return s
}

func TestExecuteRejectsNonTelkomselBeforeAPICall(t *testing.T) {
	querier := &fakeQuerier{resp: sampleHistory()}
	s := newTestService(querier)

	// 0814 prefix belongs to Indosat
	got := s.Execute(context.Background(), "cek 08141234567 hari ini")
	assert.Contains(t, got, "bukan nomor Telkomsel")
	assert.Contains(t, got, "Sistem hanya mendukung analisis nomor Telkomsel")
	assert.False(t, querier.called)
}

func TestExecuteNoMSISDN(t *testing.T) {
	s := newTestService(&fakeQuerier{})
	got := s.Execute(context.Background(), "cek nomor saya dong")
	assert.Contains(t, got, "Query parsing failed")
}

func TestExecuteNormalizesToAPIFormat(t *testing.T) {
	querier := &fakeQuerier{resp: sampleHistory()}
	s := newTestService(querier)

	s.Execute(context.Background(), "cek 08111992172 jam 10")

	require.True(t, querier.called)
	assert.Equal(t, "8111992172", querier.gotMSISDN)
	// "jam 10" resolves to a window around 10:00 of the current day
	assert.Equal(t, "2025-07-01 09:30", querier.gotStart)
	assert.Equal(t, "2025-07-01 10:30", querier.gotEnd)
}

func TestExecuteMaintenanceOnAPIFailure(t *testing.T) {
	querier := &fakeQuerier{err: errors.New("connection refused")}
	s := newTestService(querier)

	got := s.Execute(context.Background(), "cek 08111992172 hari ini")
	assert.Contains(t, got, "Layanan SmartCare Sedang Maintenance")
	assert.Contains(t, got, "628-111-992-172")
}

func TestExecuteNoData(t *testing.T) {
	querier := &fakeQuerier{resp: &HistoryResponse{}}
	s := newTestService(querier)

	got := s.Execute(context.Background(), "cek 08111992172 hari ini")
	assert.Contains(t, got, "Tidak ada data ditemukan")
}

func TestExecuteNarrativePerSubIntent(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"usage", "penggunaan 08111992172 hari ini", "Analisis Penggunaan Data"},
		{"history", "riwayat 08111992172 hari ini", "Riwayat Aktivitas Data"},
		{"detail", "detil 08111992172 hari ini", "Detail Teknis Lengkap"},
		{"check", "cek 08111992172 hari ini", "Status Check"},
		{"chart falls back to timeline", "grafik 08111992172 hari ini", "Timeline Aktivitas"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(&fakeQuerier{resp: sampleHistory()})
			got := s.Execute(context.Background(), tc.query)
			assert.Contains(t, got, tc.want)
		})
	}
}

func TestExecuteUsageNarrativeContent(t *testing.T) {
	s := newTestService(&fakeQuerier{resp: sampleHistory()})

	got := s.Execute(context.Background(), "penggunaan 08111992172 hari ini")
	assert.Contains(t, got, "628-111-992-172")
	assert.Contains(t, got, "Telkomsel")
	assert.Contains(t, got, "Total Traffic: 190.00 MB")
	assert.Contains(t, got, "Peak Usage: 150.00 MB pada 2025-07-01 10:00")
	assert.Contains(t, got, "Jam Aktif: 2 dari 3 jam")
	assert.Contains(t, got, "Penggunaan data tinggi")
}
