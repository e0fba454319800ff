package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"kpisync/internal/ports"
)

// Client implements the TableStore contract against one Google
// Spreadsheet; every table is a sheet inside it.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        *slog.Logger
}

var _ ports.TableStore = (*Client)(nil)

// New authenticates with service-account credentials and binds the
// client to a single spreadsheet.
func New(ctx context.Context, spreadsheetID, credentialsFile string, logger *slog.Logger) (*Client, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// ExistingTableNames lists the sheet titles currently in the spreadsheet.
func (c *Client) ExistingTableNames(ctx context.Context) (map[string]bool, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	names := make(map[string]bool, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			names[sheet.Properties.Title] = true
		}
	}
	return names, nil
}

// CreateTable adds a sheet and writes its header row. Racing creations
// ("already exists") are treated as success.
func (c *Client) CreateTable(ctx context.Context, name string, header []string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		}},
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("add sheet: %w", err)
	}

	if err := c.update(ctx, name, [][]string{header}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	c.debug("created table", "table", name)
	return nil
}

// ReplaceRows clears the sheet and rewrites header plus body, so a rerun
// with identical data leaves the sheet byte-identical.
func (c *Client) ReplaceRows(ctx context.Context, name string, header []string, rows [][]string) error {
	clearRange := fmt.Sprintf("'%s'!A:Z", name)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	content := make([][]string, 0, len(rows)+1)
	content = append(content, header)
	content = append(content, rows...)

	if err := c.update(ctx, name, content); err != nil {
		return err
	}

	c.debug("replaced rows", "table", name, "rows", len(rows))
	return nil
}

func (c *Client) update(ctx context.Context, name string, content [][]string) error {
	values := make([][]any, len(content))
	for i, row := range content {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	updateRange := fmt.Sprintf("'%s'!A1", name)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, updateRange, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update values: %w", err)
	}
	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
