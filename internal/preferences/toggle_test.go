package preferences

import (
	"testing"
	"time"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allSnapshots() []models.Preferences {
	var out []models.Preferences
	for _, dark := range []bool{false, true} {
		for _, ama := range []bool{false, true} {
			out = append(out, models.Preferences{
				VisitorID: "v-1",
				DarkMode:  models.DarkModePreference{Enabled: dark},
				AMA:       models.AMAState{IsOpened: ama},
				UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			})
		}
	}
	return out
}

func TestToggleDarkMode_NegatesAndKeepsAMA(t *testing.T) {
	for _, p := range allSnapshots() {
		got := ToggleDarkMode(p)
		assert.Equal(t, !p.DarkMode.Enabled, got.DarkMode.Enabled)
		assert.Equal(t, p.AMA, got.AMA, "AMA must not change")
		assert.Equal(t, p.VisitorID, got.VisitorID)
		assert.Equal(t, p.UpdatedAt, got.UpdatedAt)
	}
}

func TestToggleAMA_NegatesAndKeepsDarkMode(t *testing.T) {
	for _, p := range allSnapshots() {
		got := ToggleAMA(p)
		assert.Equal(t, !p.AMA.IsOpened, got.AMA.IsOpened)
		assert.Equal(t, p.DarkMode, got.DarkMode, "dark mode must not change")
	}
}

func TestToggles_TwiceRestoresOriginal(t *testing.T) {
	for _, p := range allSnapshots() {
		assert.Equal(t, p, ToggleDarkMode(ToggleDarkMode(p)))
		assert.Equal(t, p, ToggleAMA(ToggleAMA(p)))
	}
}

func TestToggles_DoNotMutateInput(t *testing.T) {
	p := models.Preferences{VisitorID: "v"}
	_ = ToggleDarkMode(p)
	_ = ToggleAMA(p)
	require.False(t, p.DarkMode.Enabled)
	require.False(t, p.AMA.IsOpened)
}

func TestNew_UsesDefaults(t *testing.T) {
	p := New("abc", Defaults{DarkMode: true})
	assert.Equal(t, "abc", p.VisitorID)
	assert.True(t, p.DarkMode.Enabled)
	assert.False(t, p.AMA.IsOpened)
	assert.True(t, p.UpdatedAt.IsZero())
}

func TestTouch_StoresUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	p := Touch(models.Preferences{}, now)
	assert.Equal(t, time.UTC, p.UpdatedAt.Location())
	assert.True(t, p.UpdatedAt.Equal(now))
}

func TestRootClassAndStateLabel(t *testing.T) {
	assert.Equal(t, "mode-dark", RootClass(models.DarkModePreference{Enabled: true}))
	assert.Equal(t, "", RootClass(models.DarkModePreference{Enabled: false}))
	assert.Equal(t, "on", StateLabel(true))
	assert.Equal(t, "off", StateLabel(false))
}
