// Package ingest reads ledger transactions from CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Header is the expected CSV header for a ledger export.
const Header = "date,amount,category,merchant,account,tags,owner,description"

const (
	numFields  = 8
	dateFormat = "2006-01-02"
	colDate    = 0
	colAmount  = 1
	colCat     = 2
	colMerch   = 3
	colAccount = 4
	colTags    = 5
	colOwner   = 6
	colDesc    = 7
)

// Stats summarizes one import run.
type Stats struct {
	Read    int
	Skipped int
}

// ReadTransactions parses a ledger CSV. Rows that fail to parse are
// skipped with a warning and counted in Stats, so one bad export line
// does not lose the rest of the file.
func ReadTransactions(r io.Reader) ([]core.Transaction, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	var stats Stats

	header, err := cr.Read()
	if err == io.EOF {
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("reading ledger CSV header: %w", err)
	}
	if strings.Join(header, ",") != Header {
		return nil, stats, fmt.Errorf("unexpected ledger CSV header: %q", strings.Join(header, ","))
	}

	var txs []core.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping unreadable CSV row", "line", line, "error", err)
			stats.Skipped++
			continue
		}

		tx, err := unmarshalTransaction(rec)
		if err != nil {
			slog.Warn("Skipping malformed CSV row", "line", line, "error", err)
			stats.Skipped++
			continue
		}
		txs = append(txs, tx)
		stats.Read++
	}
	return txs, stats, nil
}

func unmarshalTransaction(rec []string) (core.Transaction, error) {
	date, err := time.Parse(dateFormat, strings.TrimSpace(rec[colDate]))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}

	cents, err := parseAmountCents(rec[colAmount])
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Date:        core.Date{Time: date},
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(rec[colCat]),
		Merchant:    strings.TrimSpace(rec[colMerch]),
		Account:     strings.TrimSpace(rec[colAccount]),
		Tags:        splitTags(rec[colTags]),
		Owner:       strings.TrimSpace(rec[colOwner]),
		Description: strings.TrimSpace(rec[colDesc]),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validating row: %w", err)
	}
	return tx, nil
}

// parseAmountCents converts a decimal amount string ("12.30", "-7",
// "1.005") to whole cents, rounding half up on sub-cent digits.
func parseAmountCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
