package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	n, err := cw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", sb1.String())
	assert.Equal(t, "hello", sb2.String())
}

func TestCombinedWriter_CollectsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	sb := &strings.Builder{}

	cw := NewCombinedWriter(failingWriter{errA}, sb, failingWriter{errB})
	_, err := cw.Write([]byte("x"))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	// healthy writers still receive the line
	assert.Equal(t, "x", sb.String())
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("nonsense"))
}

func TestSetup_WritesFile(t *testing.T) {
	dir := t.TempDir()
	prevOut := logrus.StandardLogger().Out
	t.Cleanup(func() { logrus.SetOutput(prevOut) })

	Setup(SetupParams{LogsPath: dir, LogFileName: "test", LogLevel: "info", LogFormatJSON: true})
	logrus.WithField("k", "v").Info("written to file")

	assert.FileExists(t, dir+"/test.log")
}
