package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(min Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{out: log.New(&buf, "", 0), min: min}, &buf
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)
	l.Infof("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warnf("shown %d", 2)
	assert.Contains(t, buf.String(), "Warning: shown 2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("anything-else"))
}

func TestLogger_ErrorfPrefixesError(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)
	l.Errorf("boom: %v", "bad")
	assert.Contains(t, buf.String(), "Error: boom: bad")
}
