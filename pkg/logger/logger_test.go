package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	t.Cleanup(func() { log = nil })

	require.NoError(t, Init("debug", "json", path))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	WithFields(logrus.Fields{"session_id": "abc"}).Info("hello")
	Debugf("pending=%v", true)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.Contains(t, string(data), "pending=true")
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	t.Cleanup(func() { log = nil })

	require.NoError(t, Init("verbose", "text", ""))
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestInitBadFile(t *testing.T) {
	err := Init("info", "text", filepath.Join(t.TempDir(), "missing", "client.log"))
	assert.Error(t, err)
}

func TestWithFieldsBeforeInit(t *testing.T) {
	log = nil
	assert.NotPanics(t, func() {
		WithFields(logrus.Fields{"k": "v"}).Warn("dropped")
		Infof("dropped %d", 1)
	})
}
