package complaintdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telcoinsight/keluhan-bot-go/internal/storage"
)

func TestRowsToMaps(t *testing.T) {
	db, err := storage.NewTestDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Conn().Exec(`CREATE TABLE tickets (order_id TEXT, total INTEGER, note BLOB)`)
	require.NoError(t, err)
	_, err = db.Conn().Exec(`INSERT INTO tickets VALUES ('CC-1', 3, x'686921'), ('CC-2', 7, NULL)`)
	require.NoError(t, err)

	rows, err := db.Conn().Query(`SELECT order_id, total, note FROM tickets ORDER BY order_id`)
	require.NoError(t, err)
	defer rows.Close()

	result, err := RowsToMaps(rows)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "CC-1", result[0]["order_id"])
	assert.EqualValues(t, 3, result[0]["total"])
	// Byte slices normalized to strings
	assert.Equal(t, "hi!", result[0]["note"])
	assert.Nil(t, result[1]["note"])
}

func TestRowsToMapsEmpty(t *testing.T) {
	db, err := storage.NewTestDB()
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Conn().Query(`SELECT session_id FROM sessions`)
	require.NoError(t, err)
	defer rows.Close()

	result, err := RowsToMaps(rows)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(errors.New("dial tcp: connection refused")))
	assert.True(t, isTransient(errors.New("context deadline exceeded")))
	assert.True(t, isTransient(errors.New("code: 202, message: Too many simultaneous queries")))
	assert.False(t, isTransient(errors.New("code: 62, message: Syntax error")))
	assert.False(t, isTransient(nil))
}
