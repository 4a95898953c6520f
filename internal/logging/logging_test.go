package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel(" warning "))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("verbose"))
}

func TestConfigure_File(t *testing.T) {
	logger := logrus.New()
	path := filepath.Join(t.TempDir(), "logs", "healthplus")

	Configure(logger, Params{Level: "debug", JSONFormat: true, File: path})
	logger.WithField("fixes", 3).Debug("repair applied")

	data, err := os.ReadFile(path + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"repair applied"`)
	assert.Contains(t, string(data), `"fixes":3`)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestConfigure_Stderr(t *testing.T) {
	logger := logrus.New()
	Configure(logger, Params{Level: "warn"})
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}
