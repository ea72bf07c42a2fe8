package gsheets

import (
	"context"
	"time"
)

// CellUpdate is a single-cell write staged for a batch commit.
type CellUpdate struct {
	Range string // e.g. "'EH Academy'!F6"
	Value string
}

// DriveFile is the slice of Drive metadata the tracker list needs.
type DriveFile struct {
	ID           string
	Name         string
	CreatedTime  time.Time
	ModifiedTime time.Time
	WebViewLink  string
	Owner        string
}

// Reader fetches a rectangular range of cell values. Short rows and missing
// trailing cells are returned as-is; callers bounds-check.
type Reader interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

// CellWriter commits staged cell updates and range writes.
type CellWriter interface {
	BatchUpdateCells(ctx context.Context, spreadsheetID string, updates []CellUpdate) error
	UpdateRange(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
}

// Appender appends one row at the end of a range.
type Appender interface {
	AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error
}

// Drive covers the template-copy, permission and listing calls used by
// tracker provisioning.
type Drive interface {
	CopyFile(ctx context.Context, fileID, name, folderID string) (string, error)
	RenameFirstSheet(ctx context.Context, spreadsheetID, title string) error
	GrantWriter(ctx context.Context, fileID, email string) error
	ListSpreadsheets(ctx context.Context, folderID string) ([]DriveFile, error)
}

// API is everything the portal asks of Google Sheets and Drive.
type API interface {
	Reader
	CellWriter
	Appender
	Drive
}
