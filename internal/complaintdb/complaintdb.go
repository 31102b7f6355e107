// Package complaintdb executes generated queries against the ClickHouse
// complaint warehouse and returns rows as generic maps, since list and
// detail projections differ per intent.
package complaintdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/telcoinsight/keluhan-bot-go/internal/config"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
)

// Row is one result row keyed by column name.
type Row map[string]any

// DB wraps the warehouse connection.
type DB struct {
	conn       *sql.DB
	maxRetries int
	timeout    time.Duration
	metrics    *metrics.Metrics
}

// New opens a warehouse connection from configuration.
func New(cfg *config.Config, m *metrics.Metrics) (*DB, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{cfg.ClickHouseAddr},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		},
		DialTimeout: 10 * time.Second,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	return &DB{
		conn:       conn,
		maxRetries: cfg.QueryMaxRetries,
		timeout:    cfg.QueryTimeout,
		metrics:    m,
	}, nil
}

// Ping verifies the warehouse is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Query runs the statement with bounded retries on transient failures.
// intent labels the metrics only.
func (d *DB) Query(ctx context.Context, intent, query string) ([]Row, error) {
	start := time.Now()

	var rows []Row
	var err error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}

		rows, err = d.queryOnce(ctx, query)
		if err == nil {
			break
		}
		if !isTransient(err) || attempt == d.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(backoff):
			continue
		}
		break
	}

	if d.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		d.metrics.RecordWarehouseQuery(intent, status, time.Since(start).Seconds())
	}

	if err != nil {
		return nil, domerrors.NewQueryExecError(query, err)
	}
	return rows, nil
}

func (d *DB) queryOnce(ctx context.Context, query string) ([]Row, error) {
	queryCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	rows, err := d.conn.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return RowsToMaps(rows)
}

// RowsToMaps scans every row into a column-keyed map. Byte slices are
// converted to strings so narratives never see raw driver types.
func RowsToMaps(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return result, nil
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// isTransient reports whether a warehouse error is worth one more try.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused", "connection reset", "broken pipe",
		"timeout", "deadline", "too many simultaneous queries",
		"memory limit", "eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
