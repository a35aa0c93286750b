package run

import (
	"testing"

	"github.com/stretchr/testify/require"

	serverconfig "github.com/lucidity-ai/lucidity/pkg/server/config"
)

func TestReadConfigReturnsVerifiableDefaults(t *testing.T) {
	config, err := ReadConfig()
	require.NoError(t, err)
	require.NoError(t, config.Verify())
	require.Equal(t, serverconfig.DefaultConfig().HTTP.Addr, config.HTTP.Addr)
}

func TestRunCommandNoConfigDefaultValues(t *testing.T) {
	cmd := NewRunCommand()
	cmd.PreRun(cmd, nil)

	defaultConfig := serverconfig.DefaultConfig()

	addr, err := cmd.Flags().GetString("http-addr")
	require.NoError(t, err)
	require.Equal(t, defaultConfig.HTTP.Addr, addr)

	limit, err := cmd.Flags().GetInt("ratelimit-limit")
	require.NoError(t, err)
	require.Equal(t, defaultConfig.RateLimit.Limit, limit)

	textTimeout, err := cmd.Flags().GetDuration("pipeline-text-stage-timeout")
	require.NoError(t, err)
	require.Equal(t, defaultConfig.Pipeline.TextStageTimeout, textTimeout)
}
