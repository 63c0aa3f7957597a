// Package sheets exports report summaries to a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bilancio/internal/analytics"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Config holds what the exporter needs to reach one spreadsheet.
// Exactly one of CredentialsFile and CredentialsJSON must be set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Bilancio"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials provided inline or as a file path.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ExportYearly replaces the export sheet's contents with the yearly
// overview: one row per month plus a category breakdown.
func (c *Client) ExportYearly(ctx context.Context, stats analytics.YearlyStats) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := buildYearlyRows(stats)

	clearRange := fmt.Sprintf("%s!A:D", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	dataRange := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported yearly overview",
		"year", stats.Year,
		"rows", len(rows),
		"sheet", c.sheetName)
	return nil
}

// buildYearlyRows lays out the spreadsheet content. Amounts are written
// in currency units, not cents; the sheet is meant for humans.
func buildYearlyRows(stats analytics.YearlyStats) [][]any {
	rows := [][]any{
		{fmt.Sprintf("Year %d", stats.Year), "", "", ""},
		{"", "Income", "Expenses", "Balance"},
	}

	for _, m := range stats.Months {
		rows = append(rows, []any{
			fmt.Sprintf("%04d-%02d", stats.Year, m.Month),
			units(m.IncomeCents),
			units(m.ExpenseCents),
			units(m.BalanceCents),
		})
	}
	rows = append(rows, []any{
		"Total",
		units(stats.IncomeCents),
		units(stats.ExpenseCents),
		units(stats.BalanceCents),
	})

	rows = append(rows,
		[]any{"", "", "", ""},
		[]any{"Category", "Spent", "Transactions", ""})
	for _, name := range sortedByTotal(stats.Categories) {
		stat := stats.Categories[name]
		rows = append(rows, []any{name, units(stat.TotalCents), stat.Count, ""})
	}

	return rows
}

func sortedByTotal(categories map[string]analytics.CategoryStat) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := categories[names[i]], categories[names[j]]
		if a.TotalCents != b.TotalCents {
			return a.TotalCents > b.TotalCents
		}
		return names[i] < names[j]
	})
	return names
}

func units(cents int64) float64 {
	return float64(cents) / 100.0
}
