// Package export appends job listings to a Google Sheets spreadsheet so the
// user can track applications outside the chat.
package export

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/chandan/job-agent/internal/types"
)

// WorksheetName is the tab all exports land on.
const WorksheetName = "Jobs"

// headerRow labels the exported columns.
var headerRow = []interface{}{
	"Title", "Company", "Location", "Salary", "URL",
	"Source", "Added Date", "Applied", "Notes",
}

// Error represents a failure talking to the spreadsheet backend.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result reports one completed export.
type Result struct {
	Count int
	URL   string
}

// api is the slice of the Sheets API the exporter needs. The production
// implementation wraps *sheets.Service.
type api interface {
	getSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error)
	addSheet(ctx context.Context, title string) error
	insertRows(ctx context.Context, sheetID int64, start, count int64) error
	updateValues(ctx context.Context, rangeRef string, values [][]interface{}) error
}

// Exporter writes listing rows to one spreadsheet.
type Exporter struct {
	SpreadsheetID string
	Now           func() time.Time

	api api
}

// New creates an exporter authenticated with a service account key file.
func New(ctx context.Context, serviceAccountFile, spreadsheetID string) (*Exporter, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(serviceAccountFile))
	if err != nil {
		return nil, &Error{Message: "failed to create Sheets client", Cause: err}
	}
	return &Exporter{
		SpreadsheetID: spreadsheetID,
		Now:           time.Now,
		api:           &sheetsService{svc: svc, spreadsheetID: spreadsheetID},
	}, nil
}

// URL returns the browser link to the spreadsheet.
func (e *Exporter) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + e.SpreadsheetID
}

// Export inserts the listings just below the header row of the Jobs
// worksheet, creating the worksheet with its header when missing. New rows go
// to the top so fresh exports stay visible in long-running sheets.
func (e *Exporter) Export(ctx context.Context, listings []types.Listing) (*Result, error) {
	if len(listings) == 0 {
		return &Result{Count: 0, URL: e.URL()}, nil
	}

	sheetID, err := e.ensureWorksheet(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.api.insertRows(ctx, sheetID, 1, int64(len(listings))); err != nil {
		return nil, &Error{Message: "failed to insert rows", Cause: err}
	}

	timestamp := e.Now().Format("2006-01-02 15:04")
	rows := make([][]interface{}, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []interface{}{
			l.Title, l.Company, l.Location, l.Salary, l.URL,
			l.Source, timestamp, "No", "",
		})
	}

	rangeRef := fmt.Sprintf("%s!A2", WorksheetName)
	if err := e.api.updateValues(ctx, rangeRef, rows); err != nil {
		return nil, &Error{Message: "failed to write rows", Cause: err}
	}

	return &Result{Count: len(rows), URL: e.URL()}, nil
}

// ensureWorksheet finds the Jobs tab, creating it with a header row when it
// does not exist yet, and returns its sheet ID.
func (e *Exporter) ensureWorksheet(ctx context.Context) (int64, error) {
	spreadsheet, err := e.api.getSpreadsheet(ctx)
	if err != nil {
		return 0, &Error{Message: "failed to open spreadsheet", Cause: err}
	}

	if id, ok := findSheet(spreadsheet, WorksheetName); ok {
		return id, nil
	}

	if err := e.api.addSheet(ctx, WorksheetName); err != nil {
		return 0, &Error{Message: "failed to create worksheet", Cause: err}
	}

	headerRef := fmt.Sprintf("%s!A1", WorksheetName)
	if err := e.api.updateValues(ctx, headerRef, [][]interface{}{headerRow}); err != nil {
		return 0, &Error{Message: "failed to write header row", Cause: err}
	}

	spreadsheet, err = e.api.getSpreadsheet(ctx)
	if err != nil {
		return 0, &Error{Message: "failed to reopen spreadsheet", Cause: err}
	}
	if id, ok := findSheet(spreadsheet, WorksheetName); ok {
		return id, nil
	}
	return 0, &Error{Message: "worksheet missing after creation"}
}

func findSheet(spreadsheet *sheets.Spreadsheet, title string) (int64, bool) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true
		}
	}
	return 0, false
}

// sheetsService adapts *sheets.Service to the api interface.
type sheetsService struct {
	svc           *sheets.Service
	spreadsheetID string
}

func (s *sheetsService) getSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	return s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
}

func (s *sheetsService) addSheet(ctx context.Context, title string) error {
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: int64(len(headerRow)),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (s *sheetsService) insertRows(ctx context.Context, sheetID int64, start, count int64) error {
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   start + count,
				},
				InheritFromBefore: false,
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (s *sheetsService) updateValues(ctx context.Context, rangeRef string, values [][]interface{}) error {
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeRef, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}
