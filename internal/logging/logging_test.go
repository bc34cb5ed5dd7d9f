package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", "json")
	require.NoError(t, err)

	cl := Component(l, "generate")
	cl.Debug().Int("days", 3).Msg("scheduled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "generate", line["component"])
	assert.Equal(t, "scheduled", line["message"])
	assert.EqualValues(t, 3, line["days"])
	assert.Contains(t, line, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "", "console")
	require.NoError(t, err)

	l.Info().Str("file", "plan.ics").Msg("calendar written")
	assert.True(t, strings.Contains(buf.String(), "calendar written"))
	assert.Contains(t, buf.String(), "plan.ics")
	assert.NotContains(t, buf.String(), "\x1b[", "no colors when not writing to a terminal")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", "json")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
