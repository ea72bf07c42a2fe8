package sheetgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionColumn(t *testing.T) {
	for n := 1; n <= 10; n++ {
		idx, err := SessionColumn(n)
		require.NoError(t, err)
		assert.Equal(t, n+2, idx, "session %d", n)
	}
}

func TestSessionColumnOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 11, 100} {
		_, err := SessionColumn(n)
		assert.ErrorIs(t, err, ErrSessionOutOfRange, "session %d", n)
		_, err = SessionColumnLetter(n)
		assert.ErrorIs(t, err, ErrSessionOutOfRange, "session %d", n)
	}
}

func TestSessionColumnLetter(t *testing.T) {
	cases := map[int]string{1: "D", 2: "E", 3: "F", 10: "M"}
	for n, want := range cases {
		got, err := SessionColumnLetter(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAthleteRow(t *testing.T) {
	for pos := 1; pos <= 46; pos++ {
		row, err := AthleteRow(pos)
		require.NoError(t, err)
		assert.Equal(t, pos+4, row)
	}
	_, err := AthleteRow(0)
	assert.ErrorIs(t, err, ErrBadAthletePos)
}

func TestMarkRoundTrip(t *testing.T) {
	for _, present := range []bool{true, false} {
		assert.Equal(t, present, ParseMark(FormatMark(present)))
	}
}

func TestParseMark(t *testing.T) {
	assert.True(t, ParseMark("Attended"))
	assert.False(t, ParseMark(""))
	assert.False(t, ParseMark("attended"))
	assert.False(t, ParseMark("Absent"))
	assert.False(t, ParseMark("TRUE"))
}

func TestFormatMarkAbsentIsEmptyString(t *testing.T) {
	// Clearing a mark must still produce a well-formed cell write.
	assert.Equal(t, "", FormatMark(false))
	assert.Equal(t, "Attended", FormatMark(true))
}

func TestSessionDates(t *testing.T) {
	start := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	dates := SessionDates(start, 4)
	require.Len(t, dates, 4)
	assert.Equal(t, "10/11/2025", FormatDate(dates[0]))
	assert.Equal(t, "17/11/2025", FormatDate(dates[1]))
	assert.Equal(t, "01/12/2025", FormatDate(dates[3]))
}

func TestFormatSessionDate(t *testing.T) {
	cases := map[string]string{
		"10/11/2025": "10 Nov 2025",
		"01/01/2026": "01 Jan 2026",
		"31/12/2025": "31 Dec 2025",
		"":           "",
		"tomorrow":   "tomorrow",
		"10-11-2025": "10-11-2025",
		"10/13/2025": "10 13 2025", // month out of range kept as-is
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatSessionDate(in), "input %q", in)
	}
}
