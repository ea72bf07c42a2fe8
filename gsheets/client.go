package gsheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is the real Sheets/Drive implementation of API.
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
}

var _ API = (*Client)(nil)

// NewClient builds Sheets and Drive services. An empty credentialsFile falls
// back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

func (c *Client) Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := c.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) BatchUpdateCells(ctx context.Context, spreadsheetID string, updates []CellUpdate) error {
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  u.Range,
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	_, err := c.sheets.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}

func (c *Client) AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := c.sheets.Spreadsheets.Values.Append(spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}

func (c *Client) CopyFile(ctx context.Context, fileID, name, folderID string) (string, error) {
	meta := &drive.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	f, err := c.drive.Files.Copy(fileID, meta).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

func (c *Client) RenameFirstSheet(ctx context.Context, spreadsheetID, title string) error {
	ss, err := c.sheets.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return err
	}
	if len(ss.Sheets) == 0 {
		return fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: ss.Sheets[0].Properties.SheetId,
					Title:   title,
				},
				Fields: "title",
			},
		}},
	}
	_, err = c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *Client) GrantWriter(ctx context.Context, fileID, email string) error {
	perm := &drive.Permission{
		Type:         "user",
		Role:         "writer",
		EmailAddress: email,
	}
	_, err := c.drive.Permissions.Create(fileID, perm).
		SendNotificationEmail(false).
		SupportsAllDrives(true).
		Context(ctx).Do()
	return err
}

func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]DriveFile, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType='application/vnd.google-apps.spreadsheet' and trashed=false", folderID)
	resp, err := c.drive.Files.List().
		Q(q).
		Fields("files(id, name, createdTime, modifiedTime, webViewLink, owners)").
		OrderBy("createdTime desc").
		PageSize(100).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	files := make([]DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		df := DriveFile{
			ID:          f.Id,
			Name:        f.Name,
			WebViewLink: f.WebViewLink,
			Owner:       "Unknown",
		}
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			df.CreatedTime = t
		}
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			df.ModifiedTime = t
		}
		if len(f.Owners) > 0 && f.Owners[0].EmailAddress != "" {
			df.Owner = f.Owners[0].EmailAddress
		}
		files = append(files, df)
	}
	return files, nil
}
