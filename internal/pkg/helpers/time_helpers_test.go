package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("10:30")
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	minutes, err = ParseClock("08:15:00")
	require.NoError(t, err)
	assert.Equal(t, 495, minutes)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestClockRoundTripThroughPG(t *testing.T) {
	in := "13:45"
	pg, err := ClockToPG(&in)
	require.NoError(t, err)
	assert.True(t, pg.Valid)

	out := ClockFromPG(pg)
	require.NotNil(t, out)
	assert.Equal(t, "13:45", *out)

	empty, err := ClockToPG(nil)
	require.NoError(t, err)
	assert.False(t, empty.Valid)
	assert.Nil(t, ClockFromPG(empty))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.September, d.Month())

	d, err = ParseDate("2025-09-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	_, err = ParseDate("01/09/2025")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	ten, twelve, eleven, thirteen, fourteen := 600, 720, 660, 780, 840

	assert.True(t, Overlaps(ten, twelve, eleven, thirteen))
	assert.False(t, Overlaps(ten, twelve, twelve, fourteen))
	assert.True(t, Overlaps(eleven, thirteen, ten, fourteen))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}
