package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	WithComponent("aggregator").WithError(errors.New("boom")).Warn("Skipping repository")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "aggregator", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "Skipping repository", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
}
