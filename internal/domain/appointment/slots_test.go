package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/httperr"
)

func intPtr(v int) *int { return &v }

func TestResolveWorkingHoursDefaults(t *testing.T) {
	wh, err := ResolveWorkingHours("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, WorkingHours{OpeningMinutes: 9 * 60, ClosingMinutes: 17 * 60, SlotMinutes: 15}, wh)
	assert.Len(t, wh.CandidateSlots(), 32)
}

func TestResolveWorkingHoursRejectsBadConfig(t *testing.T) {
	_, err := ResolveWorkingHours("09:00", "17:00", intPtr(0))
	assert.True(t, httperr.IsBusiness(err, "invalid_slot_duration"))

	_, err = ResolveWorkingHours("09:00", "17:00", intPtr(-5))
	assert.True(t, httperr.IsBusiness(err, "invalid_slot_duration"))

	_, err = ResolveWorkingHours("17:00", "09:00", nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_working_hours"))

	_, err = ResolveWorkingHours("9am", "17:00", nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_working_hours"))
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]int{
		"00:00":    0,
		"09:30":    570,
		"9:05":     545,
		"17:00:00": 1020,
		"23:59:59": 1439,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		require.NoErrorf(t, err, "ParseTimeOfDay(%q)", in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "24:00", "12:60", "12", "ab:cd", "1:2:3:4", "123:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.Errorf(t, err, "ParseTimeOfDay(%q)", bad)
	}
}

func TestFormatTimeOfDayPads(t *testing.T) {
	assert.Equal(t, "09:05", FormatTimeOfDay(545))
	assert.Equal(t, "00:00", FormatTimeOfDay(0))
	assert.Equal(t, "23:45", FormatTimeOfDay(1425))
}

func TestCandidateSlotsCount(t *testing.T) {
	cases := []struct {
		open, close string
		slot        int
		want        int
	}{
		{"09:00", "10:00", 30, 2},
		{"09:00", "17:00", 15, 32},
		{"09:00", "10:00", 25, 2},
		{"09:00", "09:20", 30, 0},
		{"08:30:00", "12:00:00", 60, 3},
		{"09:00", "17:00", 45, 10},
	}
	for _, tt := range cases {
		wh, err := ResolveWorkingHours(tt.open, tt.close, intPtr(tt.slot))
		require.NoError(t, err)
		assert.Lenf(t, wh.CandidateSlots(), tt.want, "%s-%s/%d", tt.open, tt.close, tt.slot)
	}
}

func TestCandidateSlotsDropsTrailingPartialSlot(t *testing.T) {
	wh, err := ResolveWorkingHours("09:00", "17:00", intPtr(45))
	require.NoError(t, err)

	slots := wh.CandidateSlots()
	assert.Equal(t, "15:45", slots[len(slots)-1])
	assert.False(t, wh.OnGrid("16:30"))
}

func TestAvailableSlots(t *testing.T) {
	wh, err := ResolveWorkingHours("09:00", "10:00", intPtr(30))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30"}, AvailableSlots(SlotQuery{Hours: wh}))
	assert.Equal(t, []string{"09:30"}, AvailableSlots(SlotQuery{Hours: wh, Occupied: []string{"09:00"}}))
	assert.Equal(t, []string{"09:30"}, AvailableSlots(SlotQuery{Hours: wh, Occupied: []string{"9:00"}}))
	assert.Empty(t, AvailableSlots(SlotQuery{Hours: wh, Occupied: []string{"09:00", "09:30"}}))
}

func TestAvailableSlotsToday(t *testing.T) {
	wh, err := ResolveWorkingHours("09:00", "12:00", intPtr(60))
	require.NoError(t, err)

	// 10:00 is still offered at exactly 10:00.
	got := AvailableSlots(SlotQuery{Hours: wh, IsToday: true, NowMinutes: 10 * 60})
	assert.Equal(t, []string{"10:00", "11:00"}, got)

	got = AvailableSlots(SlotQuery{Hours: wh, IsToday: true, NowMinutes: 10*60 + 1})
	assert.Equal(t, []string{"11:00"}, got)

	got = AvailableSlots(SlotQuery{Hours: wh, IsToday: false, NowMinutes: 23 * 60})
	assert.Len(t, got, 3)
}

func TestOnGrid(t *testing.T) {
	wh, err := ResolveWorkingHours("09:00", "10:00", intPtr(30))
	require.NoError(t, err)

	assert.True(t, wh.OnGrid("09:00"))
	assert.True(t, wh.OnGrid("09:30"))
	assert.False(t, wh.OnGrid("09:15"))
	assert.False(t, wh.OnGrid("10:00"))
	assert.False(t, wh.OnGrid("08:30"))
	assert.False(t, wh.OnGrid("nope"))
}
