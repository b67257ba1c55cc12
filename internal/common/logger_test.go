package common

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMakeLoggerRejectsOutOfRangeVerbosity(t *testing.T) {
	_, err := MakeLogger("", 5, true)
	require.Error(t, err)
}

func TestMakeLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	log, err := MakeLogger(path, 1, false)
	require.NoError(t, err)

	log.Info(1, "hello", logrus.Fields{"k": "v"})
	require.Greater(t, log.GetFileSize(), int64(0))
	require.Equal(t, path, log.GetFileName())
}

func TestInfoGatedByVerbosity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	log, err := MakeLogger(path, 0, false)
	require.NoError(t, err)

	log.Info(2, "should not appear", nil)
	require.Equal(t, int64(0), log.GetFileSize())
}
