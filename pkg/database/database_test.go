package database

import (
	"io"
	"testing"

	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemoryRunsMigrations(t *testing.T) {
	logger.SetOutput(io.Discard)

	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"discussions", "community_stats"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestRunSQLScriptsIsRepeatable(t *testing.T) {
	logger.SetOutput(io.Discard)

	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RunSQLScripts(db))
}
