// Package sheetgrid maps the term-tracker spreadsheet layout to and from
// domain values. The layout contract:
//
//	Row 1: [programType, "Time:", sessionTime, sessionDay]
//	Row 2: [termName, "Coach:", coachName]
//	Row 3: session dates in columns D..M (sessions 1..10)
//	Row 5+: one athlete per row (A=name, B=ratio, C=payment, D..M=marks)
package sheetgrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SessionSlots is the number of fixed session columns (D..M).
	SessionSlots = 10
	// DataStartRow is the 1-based sheet row of the first athlete.
	DataStartRow = 5
	// HeaderRows is the number of header/date rows above the roster.
	HeaderRows = 4

	// AttendedMark is the cell value recording presence. Anything else,
	// including an empty cell, reads as absent.
	AttendedMark = "Attended"

	// ReadRange covers the header rows plus up to 50 data rows.
	ReadRange = "A1:M50"
	// RosterRange covers name/ratio/payment for up to 50 athletes.
	RosterRange = "A5:C50"
)

var (
	ErrSessionOutOfRange = errors.New("session number must be between 1 and 10")
	ErrBadAthletePos     = errors.New("athlete position must be at least 1")
)

// SessionColumn returns the 0-based column index for a session number.
// Session 1 is column D (index 3).
func SessionColumn(n int) (int, error) {
	if n < 1 || n > SessionSlots {
		return 0, ErrSessionOutOfRange
	}
	return 2 + n, nil
}

// SessionColumnLetter returns the column letter ("D".."M") for a session number.
func SessionColumnLetter(n int) (string, error) {
	idx, err := SessionColumn(n)
	if err != nil {
		return "", err
	}
	return string(rune('A' + idx)), nil
}

// AthleteRow returns the 1-based sheet row for an athlete position.
// Position 1 is row 5.
func AthleteRow(pos int) (int, error) {
	if pos < 1 {
		return 0, ErrBadAthletePos
	}
	return 4 + pos, nil
}

// ParseMark reports whether a cell value records presence.
func ParseMark(cell string) bool {
	return cell == AttendedMark
}

// FormatMark returns the cell value for a presence flag. Clearing a mark
// writes an empty string, never a null cell.
func FormatMark(present bool) string {
	if present {
		return AttendedMark
	}
	return ""
}

// SessionDates returns n weekly dates starting at start.
func SessionDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i))
	}
	return dates
}

// FormatDate renders a date the way the sheet stores it: DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatSessionDate reformats a sheet date ("10/11/2025") for display
// ("10 Nov 2025"). Anything unparseable comes back unchanged.
func FormatSessionDate(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	month := parts[1]
	if m, err := strconv.Atoi(month); err == nil && m >= 1 && m <= 12 {
		month = monthNames[m-1]
	}
	return fmt.Sprintf("%s %s %s", parts[0], month, parts[2])
}
