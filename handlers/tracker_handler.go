package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/email"
	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/sheetgrid"
)

// TrackerSheets is the slice of the sheets API provisioning uses.
type TrackerSheets interface {
	gsheets.CellWriter
	gsheets.Drive
}

type TrackerHandler struct {
	cfg      *config.Config
	sheets   TrackerSheets
	notifier email.Notifier
}

func NewTrackerHandler(cfg *config.Config, sheets TrackerSheets, notifier email.Notifier) *TrackerHandler {
	return &TrackerHandler{cfg: cfg, sheets: sheets, notifier: notifier}
}

/* ====================== DTOs ====================== */

type trackerTermConfig struct {
	ProgramType      string `json:"programType"`
	TermName         string `json:"termName"`
	CoachName        string `json:"coachName"`
	StartDate        string `json:"startDate"`
	SessionTime      string `json:"sessionTime"`
	SessionDay       string `json:"sessionDay"`
	NumberOfSessions int    `json:"numberOfSessions"`
	Year             string `json:"year"`
}

type trackerAthlete struct {
	Name                 string `json:"name"`
	Ratio                string `json:"ratio"`
	PaidStatus           string `json:"paidStatus"`
	GuardianName         string `json:"guardianName"`
	GuardianRelationship string `json:"guardianRelationship"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Address              string `json:"address"`
	PlanManager          string `json:"planManager"`
	Funded               string `json:"funded"`
	COS                  string `json:"cos"`
}

type createTrackerRequest struct {
	TermConfig *trackerTermConfig `json:"termConfig"`
	Athletes   []trackerAthlete   `json:"athletes"`
	CreatedBy  string             `json:"createdBy"`
}

func parseStartDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q", s)
}

// validate collects every violation so the frontend can show them all at once.
func (r *createTrackerRequest) validate() []string {
	if r.TermConfig == nil {
		return []string{"Missing term configuration"}
	}

	var errs []string
	tc := r.TermConfig

	if tc.ProgramType == "" {
		errs = append(errs, "Program type is required")
	}
	if strings.TrimSpace(tc.TermName) == "" {
		errs = append(errs, "Term name is required")
	}
	if strings.TrimSpace(tc.CoachName) == "" {
		errs = append(errs, "Coach name is required")
	}
	if tc.StartDate == "" {
		errs = append(errs, "Start date is required")
	} else if _, err := parseStartDate(tc.StartDate); err != nil {
		errs = append(errs, "Invalid start date format")
	}
	if len(r.Athletes) == 0 {
		errs = append(errs, "At least one athlete is required")
	}
	if !strings.Contains(r.CreatedBy, "@") {
		errs = append(errs, "Valid creator email is required")
	}
	return errs
}

/* ====================== POST /createTermTracker ====================== */

func (h *TrackerHandler) Create(c echo.Context) error {
	var req createTrackerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors":  []string{"Invalid request body"},
		})
	}

	// Validation precedes any Drive call.
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	tc := req.TermConfig

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	name := fmt.Sprintf("%s - Attendance & Payment - %s", tc.TermName, tc.ProgramType)
	log.Printf("copying template %s to create %q", h.cfg.TemplateSpreadsheetID, name)

	spreadsheetID, err := h.sheets.CopyFile(ctx, h.cfg.TemplateSpreadsheetID, name, h.cfg.TrackerFolderID)
	if err != nil {
		return trackerFailed(c, err)
	}

	if err := h.sheets.RenameFirstSheet(ctx, spreadsheetID, tc.ProgramType); err != nil {
		return trackerFailed(c, err)
	}
	if err := h.writeHeaders(ctx, spreadsheetID, tc); err != nil {
		return trackerFailed(c, err)
	}
	if err := h.writeAthletes(ctx, spreadsheetID, req.Athletes); err != nil {
		return trackerFailed(c, err)
	}

	// Coach and admin both get edit access, no notification emails.
	for _, addr := range []string{req.CreatedBy, h.cfg.AdminEmail} {
		if err := h.sheets.GrantWriter(ctx, spreadsheetID, addr); err != nil {
			return trackerFailed(c, err)
		}
	}

	sheetURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID)

	// Confirmation mail is best-effort; a sink failure never fails the create.
	msg := email.Message{
		To:      h.cfg.NotifyList(),
		Subject: fmt.Sprintf("New Term Tracker Created - %s - %s %s", tc.ProgramType, tc.TermName, tc.Year),
		HTML: email.TrackerCreatedHTML(tc.ProgramType, tc.TermName, tc.Year, tc.CoachName,
			tc.SessionDay, tc.SessionTime, spreadsheetID, sheetURL),
	}
	if _, err := h.notifier.Send(ctx, msg); err != nil {
		log.Printf("tracker confirmation email failed (non-fatal): %v", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"sheetId":  spreadsheetID,
		"sheetUrl": sheetURL,
		"message":  "Term tracker created successfully",
	})
}

func (h *TrackerHandler) writeHeaders(ctx context.Context, spreadsheetID string, tc *trackerTermConfig) error {
	start, err := parseStartDate(tc.StartDate)
	if err != nil {
		return err
	}
	n := tc.NumberOfSessions
	if n <= 0 || n > sheetgrid.SessionSlots {
		n = sheetgrid.SessionSlots
	}

	// Row 3 leads with three nil cells so the dates land in column D.
	dateRow := []interface{}{nil, nil, nil}
	for _, d := range sheetgrid.SessionDates(start, n) {
		dateRow = append(dateRow, sheetgrid.FormatDate(d))
	}

	values := [][]interface{}{
		{tc.ProgramType, "Time:", tc.SessionTime, tc.SessionDay},
		{tc.TermName, "Coach:", tc.CoachName},
		dateRow,
	}
	return h.sheets.UpdateRange(ctx, spreadsheetID, "A1:M3", values)
}

func (h *TrackerHandler) writeAthletes(ctx context.Context, spreadsheetID string, athletes []trackerAthlete) error {
	rows := make([][]interface{}, 0, len(athletes))
	for _, a := range athletes {
		ratio := a.Ratio
		if ratio == "" {
			ratio = "1:2"
		}
		paid := a.PaidStatus
		if paid == "" {
			paid = "Pending"
		}
		guardian := a.GuardianName
		if a.GuardianName != "" && a.GuardianRelationship != "" {
			guardian = fmt.Sprintf("%s (%s)", a.GuardianName, a.GuardianRelationship)
		}

		row := []interface{}{
			a.Name, // A: athlete name
			ratio,  // B: ratio
			paid,   // C: paid/confirmed
		}
		for i := 0; i < sheetgrid.SessionSlots; i++ { // D-M: attendance, empty
			row = append(row, nil)
		}
		row = append(row,
			nil,           // N: goal
			nil,           // O: actual
			paid,          // P: payment
			nil,           // Q: post paid
			nil,           // R: communication/status
			nil,           // S: transport/training
			nil,           // T: transport/games
			guardian,      // U: guardian
			a.Phone,       // V
			a.Email,       // W
			a.Address,     // X
			a.PlanManager, // Y
			a.Funded,      // Z
			a.COS,         // AA
		)
		rows = append(rows, row)
	}

	endRow := 4 + len(rows)
	writeRange := fmt.Sprintf("A%d:AA%d", sheetgrid.DataStartRow, endRow)
	return h.sheets.UpdateRange(ctx, spreadsheetID, writeRange, rows)
}

func trackerFailed(c echo.Context, err error) error {
	log.Printf("error creating term tracker: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": "Internal server error",
		"errors":  []string{err.Error()},
	})
}

/* ====================== GET /listTermTrackers ====================== */

func (h *TrackerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	files, err := h.sheets.ListSpreadsheets(ctx, h.cfg.TrackerFolderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to list term trackers",
			"error":   err.Error(),
		})
	}

	trackers := make([]map[string]any, 0, len(files))
	for _, f := range files {
		// File names follow "Term 1 - Attendance & Payment - EH Academy".
		termName := f.Name
		programType := "Unknown"
		if parts := strings.Split(f.Name, " - "); len(parts) >= 3 {
			termName = strings.TrimSpace(parts[0])
			programType = strings.TrimSpace(parts[2])
		}

		trackers = append(trackers, map[string]any{
			"id":           f.ID,
			"name":         f.Name,
			"termName":     termName,
			"programType":  programType,
			"createdTime":  f.CreatedTime,
			"modifiedTime": f.ModifiedTime,
			"url":          f.WebViewLink,
			"owner":        f.Owner,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"trackers": trackers,
		"count":    len(trackers),
	})
}
