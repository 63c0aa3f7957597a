package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bilancio/internal/cli"
	"bilancio/internal/ingest"
	applog "bilancio/internal/log"
)

func main() {
	logger := cli.Setup(applog.ComponentIngest)

	file := flag.String("file", "", "CSV file to import (defaults to stdin)")
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(logger)

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Error("Failed to open import file", "error", err, "file", *file)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	txs, stats, err := ingest.ReadTransactions(in)
	if err != nil {
		logger.Error("Failed to read ledger CSV", "error", err)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx := context.Background()
	saved := 0
	for _, tx := range txs {
		if _, err := repo.Append(ctx, tx); err != nil {
			logger.Error("Failed to save transaction",
				"error", err,
				"date", tx.Date.Format("2006-01-02"),
				"merchant", tx.Merchant)
			os.Exit(1)
		}
		saved++
	}

	logger.Info("Import completed",
		"read", stats.Read,
		"skipped", stats.Skipped,
		"saved", saved,
		"db", cfg.SQLiteDBPath)
	fmt.Printf("imported %d transactions (%d rows skipped)\n", saved, stats.Skipped)
}
