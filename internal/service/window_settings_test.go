package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/service"
)

func TestWindowSettings(t *testing.T) {
	f := newFixture(t)
	s := service.NewWindowSettingsService(f.db)

	def := s.LoadWindowSize()
	assert.Equal(t, 1440, def.Width)
	assert.Equal(t, 900, def.Height)

	require.NoError(t, s.SaveWindowSize(1600, 1000))
	assert.Equal(t, service.WindowSize{Width: 1600, Height: 1000}, s.LoadWindowSize())

	// Sizes below the minimum fall back to defaults.
	require.NoError(t, s.SaveWindowSize(300, 200))
	assert.Equal(t, def, s.LoadWindowSize())

	assert.Empty(t, s.LastPageKey())
	require.NoError(t, s.SetLastPageKey("A0"))
	assert.Equal(t, "A0", s.LastPageKey())

	var none service.WindowSettingsService
	assert.Equal(t, def, none.LoadWindowSize())
}
