package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yml")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "0.0.0.0", cfg.Media.ListenIP)
	require.Equal(t, uint16(10000), cfg.Media.RtcMinPort)
	require.Equal(t, uint16(10100), cfg.Media.RtcMaxPort)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MEDIASOUP_ANNOUNCED_IP", "203.0.113.7")
	t.Setenv("MEDIASOUP_RTC_MIN_PORT", "40000")
	t.Setenv("MEDIASOUP_RTC_MAX_PORT", "40100")

	cfg, err := Load("does-not-exist.yml")
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, "203.0.113.7", cfg.Media.AnnouncedAddress)
	require.Equal(t, uint16(40000), cfg.Media.RtcMinPort)
	require.Equal(t, uint16(40100), cfg.Media.RtcMaxPort)
}
