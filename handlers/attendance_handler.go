package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/models"
	"github.com/devotedabilities/empowered-hoops-portal/sheetgrid"
)

// Google calls get a hard deadline so a stuck read surfaces as an error
// instead of hanging the request.
const requestTimeout = 30 * time.Second

// AttendanceSheets is the slice of the sheets API the attendance endpoints use.
type AttendanceSheets interface {
	gsheets.Reader
	gsheets.CellWriter
}

// EventLog is the durable attendance log. Implemented by database.Store.
type EventLog interface {
	LogAttendance(events []models.AttendanceEvent) error
}

type AttendanceHandler struct {
	sheets AttendanceSheets
	store  EventLog
}

func NewAttendanceHandler(sheets AttendanceSheets, store EventLog) *AttendanceHandler {
	return &AttendanceHandler{sheets: sheets, store: store}
}

/* ====================== DTOs ====================== */

type TermConfig struct {
	ProgramType  string  `json:"programType"`
	SessionTime  string  `json:"sessionTime"`
	SessionDay   string  `json:"sessionDay"`
	TermName     string  `json:"termName"`
	CoachName    string  `json:"coachName"`
	ProgramLabel string  `json:"programLabel"`
	Duration     float64 `json:"duration"`
}

type Athlete struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Session struct {
	Number    int    `json:"number"`
	Date      string `json:"date"`
	Formatted string `json:"formatted"`
}

type updateAttendanceRequest struct {
	SpreadsheetID string          `json:"spreadsheetId"`
	SheetName     string          `json:"sheetName"`
	SessionNumber int             `json:"sessionNumber"`
	Attendance    map[string]bool `json:"attendance"`
	TermConfig    *TermConfig     `json:"termConfig"`
}

// cell bounds-checks a sheet row; Google trims trailing empty cells.
func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

/* ====================== GET /getAttendanceData ====================== */

func (h *AttendanceHandler) GetAttendanceData(c echo.Context) error {
	spreadsheetID := strings.TrimSpace(c.QueryParam("spreadsheetId"))
	sheetName := strings.TrimSpace(c.QueryParam("sheetName"))

	if spreadsheetID == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Missing spreadsheetId parameter",
		})
	}
	if sheetName == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Missing sheetName parameter",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	readRange := fmt.Sprintf("'%s'!%s", sheetName, sheetgrid.ReadRange)
	rows, err := h.sheets.Values(ctx, spreadsheetID, readRange)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to get attendance data",
			"error":   err.Error(),
		})
	}

	// Header rows 1-3 plus at least one data row.
	if len(rows) < sheetgrid.HeaderRows {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid sheet structure - not enough rows",
		})
	}

	headerRow1 := rows[0]
	headerRow2 := rows[1]

	programType := cell(headerRow1, 0)
	if programType == "" {
		programType = sheetName
	}
	termName := cell(headerRow2, 0)
	coachName := cell(headerRow2, 2)
	if coachName == "" {
		coachName = "Unknown Coach"
	}
	labelTerm := termName
	if labelTerm == "" {
		labelTerm = "Term"
	}
	termConfig := TermConfig{
		ProgramType:  programType,
		SessionTime:  cell(headerRow1, 2),
		SessionDay:   cell(headerRow1, 3),
		TermName:     termName,
		CoachName:    coachName,
		ProgramLabel: fmt.Sprintf("%s — %s", programType, labelTerm),
		// Not stored in the sheet; every read reports this fixed default.
		Duration: 1.5,
	}

	// Session dates from row 3. Columns without a date are omitted, which
	// is how terms shorter than 10 sessions appear.
	sessionRow := rows[2]
	sessions := []Session{}
	for n := 1; n <= sheetgrid.SessionSlots; n++ {
		col, _ := sheetgrid.SessionColumn(n)
		date := cell(sessionRow, col)
		if date == "" {
			continue
		}
		sessions = append(sessions, Session{
			Number:    n,
			Date:      date,
			Formatted: sheetgrid.FormatSessionDate(date),
		})
	}

	// Athlete rows from row 5 on. Blank names are skipped; IDs are the
	// 1-based position among the rows that remain, and the writer redoes
	// the same arithmetic when it maps IDs back to sheet rows.
	athletes := []Athlete{}
	attendance := map[string]map[int]bool{}
	pos := 0
	for i := sheetgrid.HeaderRows; i < len(rows); i++ {
		name := strings.TrimSpace(cell(rows[i], 0))
		if name == "" {
			continue
		}
		pos++
		id := strconv.Itoa(pos)
		athletes = append(athletes, Athlete{ID: id, Name: name})

		marks := map[int]bool{}
		for n := 1; n <= sheetgrid.SessionSlots; n++ {
			col, _ := sheetgrid.SessionColumn(n)
			marks[n] = sheetgrid.ParseMark(cell(rows[i], col))
		}
		attendance[id] = marks
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"athletes":   athletes,
		"sessions":   sessions,
		"attendance": attendance,
		"termConfig": termConfig,
	})
}

/* ====================== POST /updateAttendance ====================== */

func (h *AttendanceHandler) UpdateAttendance(c echo.Context) error {
	var req updateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body",
		})
	}

	// sessionNumber 0 lands in the missing list on purpose: the sheet has
	// no session 0 and the frontend never sends one.
	var missing []string
	if strings.TrimSpace(req.SpreadsheetID) == "" {
		missing = append(missing, "spreadsheetId")
	}
	if req.SessionNumber == 0 {
		missing = append(missing, "sessionNumber")
	}
	if req.Attendance == nil {
		missing = append(missing, "attendance")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}
	if strings.TrimSpace(req.SheetName) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Missing sheetName parameter",
		})
	}

	colLetter, err := sheetgrid.SessionColumnLetter(req.SessionNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": err.Error(),
		})
	}

	log.Printf("updating attendance for session %d in %s", req.SessionNumber, req.SpreadsheetID)

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	// Roster and session date are read first so the log entries can be
	// denormalized. Not atomic with the writes below; last save wins.
	rosterRange := fmt.Sprintf("'%s'!%s", req.SheetName, sheetgrid.RosterRange)
	roster, err := h.sheets.Values(ctx, req.SpreadsheetID, rosterRange)
	if err != nil {
		return writeFailed(c, err)
	}

	dateRange := fmt.Sprintf("'%s'!%s3", req.SheetName, colLetter)
	dateRows, err := h.sheets.Values(ctx, req.SpreadsheetID, dateRange)
	if err != nil {
		return writeFailed(c, err)
	}
	sessionDate := sheetgrid.FormatDate(time.Now())
	if len(dateRows) > 0 && cell(dateRows[0], 0) != "" {
		sessionDate = cell(dateRows[0], 0)
	}

	var updates []gsheets.CellUpdate
	var events []models.AttendanceEvent

	for athleteID, present := range req.Attendance {
		pos, convErr := strconv.Atoi(athleteID)
		if convErr != nil {
			log.Printf("skipping non-numeric athlete id %q", athleteID)
			continue
		}
		row, rowErr := sheetgrid.AthleteRow(pos)
		if rowErr != nil {
			log.Printf("skipping athlete id %q: %v", athleteID, rowErr)
			continue
		}

		updates = append(updates, gsheets.CellUpdate{
			Range: fmt.Sprintf("'%s'!%s%d", req.SheetName, colLetter, row),
			Value: sheetgrid.FormatMark(present),
		})

		// Only present athletes hit the log, and only when the roster
		// still has their row. Stale client lists are skipped quietly.
		if !present {
			continue
		}
		if pos-1 >= len(roster) {
			continue
		}

		rosterRow := roster[pos-1]
		ratio := cell(rosterRow, 1)
		if ratio == "" {
			ratio = "N/A"
		}
		paymentType := cell(rosterRow, 2)
		if paymentType == "" {
			paymentType = "Private"
		}

		program := req.SheetName
		coach := "Unknown"
		duration := 1.5
		if req.TermConfig != nil {
			if req.TermConfig.ProgramLabel != "" {
				program = req.TermConfig.ProgramLabel
			}
			if req.TermConfig.CoachName != "" {
				coach = req.TermConfig.CoachName
			}
			if req.TermConfig.Duration != 0 {
				duration = req.TermConfig.Duration
			}
		}

		events = append(events, models.AttendanceEvent{
			Date:          sessionDate,
			Program:       program,
			Athlete:       cell(rosterRow, 0),
			Status:        sheetgrid.AttendedMark,
			SessionType:   "Group",
			Coach:         coach,
			Duration:      duration,
			Ratio:         ratio,
			PaymentType:   paymentType,
			Notes:         "",
			SpreadsheetID: req.SpreadsheetID,
			SessionNumber: req.SessionNumber,
		})
	}

	// Two independent commits: event log first, then the sheet. Either can
	// succeed while the other fails; there is no compensating rollback.
	if err := h.store.LogAttendance(events); err != nil {
		return writeFailed(c, err)
	}
	if err := h.sheets.BatchUpdateCells(ctx, req.SpreadsheetID, updates); err != nil {
		return writeFailed(c, err)
	}

	log.Printf("updated %d attendance marks, logged %d events", len(updates), len(events))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Attendance updated successfully",
		"updated": len(updates),
	})
}

func writeFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": "Failed to update attendance",
		"error":   err.Error(),
	})
}
