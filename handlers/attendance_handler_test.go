package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/models"
)

/* ====================== fakes ====================== */

type fakeSheets struct {
	grids     map[string][][]string // keyed by full read range
	updates   []gsheets.CellUpdate
	valuesErr error
	batchErr  error
}

func (f *fakeSheets) Values(_ context.Context, _, readRange string) ([][]string, error) {
	if f.valuesErr != nil {
		return nil, f.valuesErr
	}
	return f.grids[readRange], nil
}

func (f *fakeSheets) BatchUpdateCells(_ context.Context, _ string, updates []gsheets.CellUpdate) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.updates = append(f.updates, updates...)
	return nil
}

func (f *fakeSheets) UpdateRange(context.Context, string, string, [][]interface{}) error {
	return nil
}

type fakeEventLog struct {
	events []models.AttendanceEvent
	err    error
}

func (f *fakeEventLog) LogAttendance(events []models.AttendanceEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, events...)
	return nil
}

func newAttendanceTest(sheets *fakeSheets, store *fakeEventLog) *AttendanceHandler {
	return NewAttendanceHandler(sheets, store)
}

func doGet(t *testing.T, h *AttendanceHandler, query string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/getAttendanceData?"+query, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.GetAttendanceData(e.NewContext(req, rec)))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func doUpdate(t *testing.T, h *AttendanceHandler, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/updateAttendance", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.UpdateAttendance(e.NewContext(req, rec)))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

// termGrid builds a sheet with dates in columns D, E and G only, and a blank
// roster row between two athletes.
func termGrid() [][]string {
	return [][]string{
		{"EH Academy", "Time:", "4:00 PM", "Monday"},
		{"Term 1", "Coach:", "Sam"},
		{"", "", "", "10/11/2025", "17/11/2025", "", "01/12/2025"},
		{"Name", "Ratio", "Payment"},
		{"Jane Doe", "1:2", "Paid", "Attended", "", "", "Attended"},
		{""},
		{"Bob Roe", "1:1", "Private", "", "Attended"},
	}
}

/* ====================== GetAttendanceData ====================== */

func TestGetAttendanceDataMissingParams(t *testing.T) {
	h := newAttendanceTest(&fakeSheets{}, &fakeEventLog{})

	rec, body := doGet(t, h, "sheetName=EH+Academy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "spreadsheetId")

	rec, body = doGet(t, h, "spreadsheetId=sheet-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "sheetName")
}

func TestGetAttendanceDataTooFewRows(t *testing.T) {
	sheets := &fakeSheets{grids: map[string][][]string{
		"'EH Academy'!A1:M50": {
			{"EH Academy", "Time:", "4:00 PM", "Monday"},
			{"Term 1", "Coach:", "Sam"},
			{"", "", "", "10/11/2025"},
		},
	}}
	h := newAttendanceTest(sheets, &fakeEventLog{})

	rec, body := doGet(t, h, "spreadsheetId=sheet-1&sheetName=EH+Academy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid sheet structure - not enough rows", body["message"])
}

func TestGetAttendanceDataReadError(t *testing.T) {
	h := newAttendanceTest(&fakeSheets{valuesErr: errors.New("api down")}, &fakeEventLog{})

	rec, body := doGet(t, h, "spreadsheetId=sheet-1&sheetName=EH+Academy")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "api down", body["error"])
}

func TestGetAttendanceDataParsesGrid(t *testing.T) {
	sheets := &fakeSheets{grids: map[string][][]string{
		"'EH Academy'!A1:M50": termGrid(),
	}}
	h := newAttendanceTest(sheets, &fakeEventLog{})

	rec, body := doGet(t, h, "spreadsheetId=sheet-1&sheetName=EH+Academy")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	// Columns without a date are omitted, not zero-filled.
	sessions := body["sessions"].([]any)
	require.Len(t, sessions, 3)
	nums := []float64{}
	for _, s := range sessions {
		nums = append(nums, s.(map[string]any)["number"].(float64))
	}
	assert.Equal(t, []float64{1, 2, 4}, nums)
	first := sessions[0].(map[string]any)
	assert.Equal(t, "10/11/2025", first["date"])
	assert.Equal(t, "10 Nov 2025", first["formatted"])

	// The blank row between athletes is skipped; IDs stay dense.
	athletes := body["athletes"].([]any)
	require.Len(t, athletes, 2)
	a1 := athletes[0].(map[string]any)
	a2 := athletes[1].(map[string]any)
	assert.Equal(t, "1", a1["id"])
	assert.Equal(t, "Jane Doe", a1["name"])
	assert.Equal(t, "2", a2["id"])
	assert.Equal(t, "Bob Roe", a2["name"])

	attendance := body["attendance"].(map[string]any)
	jane := attendance["1"].(map[string]any)
	assert.Equal(t, true, jane["1"])
	assert.Equal(t, false, jane["2"])
	assert.Equal(t, true, jane["4"])
	// Sessions past the populated cells read as absent.
	assert.Equal(t, false, jane["10"])
	bob := attendance["2"].(map[string]any)
	assert.Equal(t, false, bob["1"])
	assert.Equal(t, true, bob["2"])

	tc := body["termConfig"].(map[string]any)
	assert.Equal(t, "EH Academy", tc["programType"])
	assert.Equal(t, "Sam", tc["coachName"])
	assert.Equal(t, "EH Academy — Term 1", tc["programLabel"])
	assert.Equal(t, 1.5, tc["duration"])
}

func TestGetAttendanceDataDefaults(t *testing.T) {
	sheets := &fakeSheets{grids: map[string][][]string{
		"'EH Academy'!A1:M50": {
			{},
			{},
			{},
			{},
			{"Jane Doe"},
		},
	}}
	h := newAttendanceTest(sheets, &fakeEventLog{})

	rec, body := doGet(t, h, "spreadsheetId=sheet-1&sheetName=EH+Academy")
	require.Equal(t, http.StatusOK, rec.Code)

	tc := body["termConfig"].(map[string]any)
	assert.Equal(t, "EH Academy", tc["programType"]) // falls back to sheet name
	assert.Equal(t, "Unknown Coach", tc["coachName"])
	assert.Equal(t, "EH Academy — Term", tc["programLabel"])
	assert.Empty(t, body["sessions"])
}

/* ====================== UpdateAttendance ====================== */

func writerGrids() map[string][][]string {
	return map[string][][]string{
		"'EH Academy'!A5:C50": {
			{"Jane Doe", "1:2", "Paid"},
			{"Bob Roe", "1:1", "Private"},
		},
		"'EH Academy'!F3": {{"24/11/2025"}},
	}
}

func TestUpdateAttendanceMissingFields(t *testing.T) {
	h := newAttendanceTest(&fakeSheets{}, &fakeEventLog{})

	// sessionNumber 0 is treated as missing.
	rec, body := doUpdate(t, h, `{"sheetName":"EH Academy","attendance":{"1":true}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := body["message"].(string)
	assert.Contains(t, msg, "spreadsheetId")
	assert.Contains(t, msg, "sessionNumber")
	assert.NotContains(t, msg, "attendance,")

	rec, body = doUpdate(t, h, `{"spreadsheetId":"s","sessionNumber":3,"attendance":{"1":true}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing sheetName parameter", body["message"])
}

func TestUpdateAttendanceSessionOutOfRange(t *testing.T) {
	h := newAttendanceTest(&fakeSheets{}, &fakeEventLog{})

	rec, body := doUpdate(t, h, `{"spreadsheetId":"s","sheetName":"EH Academy","sessionNumber":11,"attendance":{"1":true}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestUpdateAttendanceWritesCellsAndLog(t *testing.T) {
	sheets := &fakeSheets{grids: writerGrids()}
	store := &fakeEventLog{}
	h := newAttendanceTest(sheets, store)

	payload := `{
		"spreadsheetId":"sheet-1","sheetName":"EH Academy","sessionNumber":3,
		"attendance":{"1":true,"2":false},
		"termConfig":{"programLabel":"EH Academy — Term 1","coachName":"Sam","duration":1.5}
	}`
	rec, body := doUpdate(t, h, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["updated"])

	// Session 3 is column F; athletes 1 and 2 are rows 5 and 6.
	require.Len(t, sheets.updates, 2)
	got := map[string]string{}
	for _, u := range sheets.updates {
		got[u.Range] = u.Value
	}
	assert.Equal(t, "Attended", got["'EH Academy'!F5"])
	assert.Equal(t, "", got["'EH Academy'!F6"])

	// One log record, for the present athlete only.
	require.Len(t, store.events, 1)
	ev := store.events[0]
	assert.Equal(t, "Jane Doe", ev.Athlete)
	assert.Equal(t, "Attended", ev.Status)
	assert.Equal(t, "Group", ev.SessionType)
	assert.Equal(t, 3, ev.SessionNumber)
	assert.Equal(t, "24/11/2025", ev.Date)
	assert.Equal(t, "EH Academy — Term 1", ev.Program)
	assert.Equal(t, "Sam", ev.Coach)
	assert.Equal(t, 1.5, ev.Duration)
	assert.Equal(t, "1:2", ev.Ratio)
	assert.Equal(t, "Paid", ev.PaymentType)
	assert.Equal(t, "sheet-1", ev.SpreadsheetID)
}

func TestUpdateAttendanceResaveDuplicatesLog(t *testing.T) {
	sheets := &fakeSheets{grids: writerGrids()}
	store := &fakeEventLog{}
	h := newAttendanceTest(sheets, store)

	payload := `{"spreadsheetId":"sheet-1","sheetName":"EH Academy","sessionNumber":3,"attendance":{"1":true}}`
	for i := 0; i < 2; i++ {
		rec, _ := doUpdate(t, h, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Same present-set saved twice: two records, no dedup.
	require.Len(t, store.events, 2)
	assert.Equal(t, store.events[0].Athlete, store.events[1].Athlete)
	assert.Equal(t, store.events[0].SessionNumber, store.events[1].SessionNumber)
}

func TestUpdateAttendanceStaleAthleteSkipped(t *testing.T) {
	sheets := &fakeSheets{grids: writerGrids()}
	store := &fakeEventLog{}
	h := newAttendanceTest(sheets, store)

	// Athlete 5 is not on the two-row roster: the cell is still written but
	// no log record appears.
	payload := `{"spreadsheetId":"sheet-1","sheetName":"EH Academy","sessionNumber":3,"attendance":{"5":true}}`
	rec, body := doUpdate(t, h, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["updated"])
	assert.Empty(t, store.events)

	require.Len(t, sheets.updates, 1)
	assert.Equal(t, "'EH Academy'!F9", sheets.updates[0].Range)
}

func TestUpdateAttendanceDefaultsWithoutTermConfig(t *testing.T) {
	sheets := &fakeSheets{grids: map[string][][]string{
		"'EH Academy'!A5:C50": {{"Jane Doe"}},
		"'EH Academy'!F3":     {{"24/11/2025"}},
	}}
	store := &fakeEventLog{}
	h := newAttendanceTest(sheets, store)

	payload := `{"spreadsheetId":"sheet-1","sheetName":"EH Academy","sessionNumber":3,"attendance":{"1":true}}`
	rec, _ := doUpdate(t, h, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.events, 1)
	ev := store.events[0]
	assert.Equal(t, "EH Academy", ev.Program) // sheet name fallback
	assert.Equal(t, "Unknown", ev.Coach)
	assert.Equal(t, 1.5, ev.Duration)
	assert.Equal(t, "N/A", ev.Ratio)
	assert.Equal(t, "Private", ev.PaymentType)
}

func TestUpdateAttendanceWriteError(t *testing.T) {
	sheets := &fakeSheets{grids: writerGrids(), batchErr: errors.New("quota exceeded")}
	store := &fakeEventLog{}
	h := newAttendanceTest(sheets, store)

	payload := `{"spreadsheetId":"sheet-1","sheetName":"EH Academy","sessionNumber":3,"attendance":{"1":true}}`
	rec, body := doUpdate(t, h, payload)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "quota exceeded", body["error"])

	// The log commit ran first and is not rolled back.
	assert.Len(t, store.events, 1)
}
