package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleSheet appends rows to a Google spreadsheet found by name through
// Drive. The spreadsheet id is resolved once and reused.
type GoogleSheet struct {
	drive  *drive.Service
	sheets *gsheets.Service
	name   string

	mu            sync.Mutex
	spreadsheetID string
}

func NewGoogleSheet(driveService *drive.Service, sheetsService *gsheets.Service, name string) *GoogleSheet {
	return &GoogleSheet{
		drive:  driveService,
		sheets: sheetsService,
		name:   name,
	}
}

// NewGoogleSheetFromCredentials builds both API clients from a service
// account key, read from credentialsFile or given inline as credentialsJSON.
func NewGoogleSheetFromCredentials(ctx context.Context, name, credentialsFile, credentialsJSON string) (*GoogleSheet, error) {
	creds := []byte(credentialsJSON)
	if len(creds) == 0 {
		if credentialsFile == "" {
			return nil, fmt.Errorf("google credentials not configured")
		}
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials: %w", err)
		}
		creds = data
	}

	opts := []option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheets.SpreadsheetsScope, drive.DriveReadonlyScope),
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	sheetsService, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return NewGoogleSheet(driveService, sheetsService, name), nil
}

func (g *GoogleSheet) AppendRow(ctx context.Context, worksheet string, row []interface{}) error {
	id, err := g.lookupSpreadsheet(ctx)
	if err != nil {
		return err
	}

	spreadsheet, err := g.sheets.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet %s: %w", g.name, err)
	}
	if !hasWorksheet(spreadsheet, worksheet) {
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, worksheet)
	}

	values := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err = g.sheets.Spreadsheets.Values.Append(id, a1Range(worksheet), values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", worksheet, err)
	}
	return nil
}

func (g *GoogleSheet) lookupSpreadsheet(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.spreadsheetID != "" {
		return g.spreadsheetID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(g.name, "'", `\'`), spreadsheetMimeType)
	list, err := g.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search spreadsheet %s: %w", g.name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, g.name)
	}

	g.spreadsheetID = list.Files[0].Id
	return g.spreadsheetID, nil
}

func hasWorksheet(s *gsheets.Spreadsheet, title string) bool {
	for _, sheet := range s.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true
		}
	}
	return false
}

// a1Range anchors an append at the top-left of the named worksheet.
func a1Range(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'!A1"
}
