package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToKyivTime(t *testing.T) {
	if _, err := time.LoadLocation("Europe/Kyiv"); err != nil {
		t.Skip("tzdata unavailable")
	}
	t.Setenv("TIMEZONE", "")
	t.Setenv("BOT_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Kyiv", cfg.Timezone)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Europe/Kyiv", cfg.Location.String())
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBotMode(t *testing.T) {
	t.Setenv("BOT_MODE", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}
