package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:15")
	require.NoError(t, err)
	assert.Equal(t, NewClock(8, 15, 0), c)
	assert.Equal(t, 8*60+15, c.Minutes())

	c, err = ParseClock("17:30:45")
	require.NoError(t, err)
	assert.Equal(t, "17:30:45", c.String())
	assert.Equal(t, 17*60+30, c.Minutes())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestClock_JSON(t *testing.T) {
	var payload struct {
		Start Clock `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:00"}`), &payload))
	assert.Equal(t, NewClock(9, 0, 0), payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00:00"}`, string(out))
}

func TestClock_PGRoundTrip(t *testing.T) {
	c := NewClock(13, 45, 10)
	back := ClockFromPG(c.PG())
	require.NotNil(t, back)
	assert.Equal(t, c, *back)
	assert.Nil(t, ClockFromPG(ClockPtrPG(nil)))
}

func TestDateHelpers(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	// 2024-03-31 23:30 UTC is already April 1st in Manila.
	instant := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Date(2024, 4, 1), DateOf(instant.In(manila)))

	assert.Equal(t, Date(2024, 2, 29), LastOfMonth(Date(2024, 2, 10)))
	assert.Equal(t, Date(2023, 2, 28), LastOfMonth(Date(2023, 2, 10)))
	assert.Equal(t, Date(2024, 12, 1), FirstOfMonth(Date(2024, 12, 31)))
	assert.True(t, SameDate(Date(2024, 1, 5), time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)))

	d, err := ParseDate("2024-06-16")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, 6, 16), d)
}
