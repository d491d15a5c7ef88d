package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWriterReportsFullLength(t *testing.T) {
	w := Writer{Logger: Nop()}
	n, err := w.Write([]byte("slow query\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("slow query\n"), n)
}

func TestWithKeepsLogger(t *testing.T) {
	l := Nop().With("component", "session")
	assert.NotNil(t, l.SugaredLogger)
	l.Info("ok", "key", "value")
}
