package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/middleware"
)

// The server must not sever a connection while a slow model call is
// still inside its own budget: gateway timeout < request timeout <
// server write timeout.
func TestDefaultTimeoutsNest(t *testing.T) {
	viper.Reset()
	setDefaults()

	gateway := viper.GetDuration("gemini.timeout")
	request := middleware.DefaultTimeoutConfig().Duration
	write := viper.GetDuration("server.write_timeout")

	require.Greater(t, gateway, time.Duration(0))
	assert.Greater(t, request, gateway)
	assert.Greater(t, write, request)
}
