// Command csv-import uploads a levy CSV export to the apprenticeships API.
// The file is parsed locally first so header and row problems surface before
// anything reaches the server; -dry-run stops after that preview.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lbhackney-it/apprenticeships-api/internal/ingest"
	"github.com/lbhackney-it/apprenticeships-api/pkg/client"
)

const tokenEnv = "APPRENTICESHIPS_API_TOKEN"

func main() {
	var (
		file    = flag.String("file", "", "path to the CSV file to import")
		dataset = flag.String("dataset", "", "target dataset: apprentices or transactions")
		baseURL = flag.String("url", "http://localhost:8080", "base URL of the apprenticeships API")
		token   = flag.String("token", "", "bearer token (defaults to "+tokenEnv+")")
		dryRun  = flag.Bool("dry-run", false, "parse and report without uploading")
		timeout = flag.Duration("timeout", 2*time.Minute, "upload timeout")
	)
	flag.Parse()

	if err := run(*file, *dataset, *baseURL, *token, *dryRun, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "csv-import: %v\n", err)
		os.Exit(1)
	}
}

func run(file, dataset, baseURL, token string, dryRun bool, timeout time.Duration) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	dataset = strings.ToLower(strings.TrimSpace(dataset))
	if dataset != "apprentices" && dataset != "transactions" {
		return fmt.Errorf("-dataset must be apprentices or transactions")
	}
	if !strings.HasSuffix(strings.ToLower(file), ".csv") {
		return fmt.Errorf("%s: only .csv files are supported", file)
	}
	if token == "" {
		token = os.Getenv(tokenEnv)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	doc, err := ingest.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	switch dataset {
	case "apprentices":
		preview(file, doc, len(ingest.Apprentices(doc.Rows)))
	case "transactions":
		preview(file, doc, len(ingest.Transactions(doc.Rows)))
	}
	if dryRun {
		fmt.Println("dry run, nothing uploaded")
		return nil
	}
	if token == "" {
		return fmt.Errorf("no token: pass -token or set %s", tokenEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	api := client.New(baseURL, client.WithToken(token))
	name := filepath.Base(file)

	var result *client.IngestResult
	switch dataset {
	case "apprentices":
		result, err = api.IngestApprentices(ctx, name, bytes.NewReader(data))
	case "transactions":
		result, err = api.IngestTransactions(ctx, name, bytes.NewReader(data))
	}
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %s: %d records, %d inserted, %d errors\n",
		result.Filename, result.RecordCount, result.Inserted, result.ErrorCount)
	for _, uploadErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", uploadErr)
	}
	if result.ErrorCount > 0 {
		return fmt.Errorf("%d rows rejected", result.ErrorCount)
	}
	return nil
}

func preview(file string, doc *ingest.Document, mapped int) {
	fmt.Printf("%s: %d columns, %d rows, %d mapped records\n",
		filepath.Base(file), len(doc.Headers), len(doc.Rows), mapped)
}
