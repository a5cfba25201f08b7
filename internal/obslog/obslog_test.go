package obslog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mna/jsrevive/internal/obslog"
)

func TestNewBuildsAtRequestedLevel(t *testing.T) {
	logger, err := obslog.New("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestSugaredFallsBackOnUnknownLevel(t *testing.T) {
	sugared, err := obslog.Sugared("not-a-level")
	require.NoError(t, err)
	require.NotNil(t, sugared)
}
