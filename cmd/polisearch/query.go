package polisearch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/polisearch/polisearch"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Answer a question or a CSV batch of questions",
	Long: `Answer a single question from the --query flag, or run a batch from a CSV
file with --csv-input. The input CSV needs a "query" column and may carry an
optional "strategy" column to force the first retrieval strategy per row.
Batch results are written as CSV to --csv-output (default stdout).`,
	RunE: runQuery,
}

var (
	queryText      string
	queryStrategy  string
	queryTopK      int
	queryBranch    string
	queryCategory  string
	queryLibrary   string
	queryFilename  string
	queryLanguage  string
	queryStartPage int
	queryEndPage   int
	queryCSVInput  string
	queryCSVOutput string
)

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "Question to answer")
	queryCmd.Flags().StringVar(&queryStrategy, "strategy", "", "Force the first retrieval strategy")
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 5, "Number of results to retrieve")
	queryCmd.Flags().StringVar(&queryBranch, "branch", "", "Branch scope filter")
	queryCmd.Flags().StringVar(&queryCategory, "category", "", "Category scope filter")
	queryCmd.Flags().StringVar(&queryLibrary, "library", "", "Library scope filter")
	queryCmd.Flags().StringVar(&queryFilename, "filename", "", "Document filename hint")
	queryCmd.Flags().StringVar(&queryLanguage, "language", "", "Preferred answer language (en, tc)")
	queryCmd.Flags().IntVar(&queryStartPage, "start-page", 0, "First page of document-scoped retrieval (0 = unbounded)")
	queryCmd.Flags().IntVar(&queryEndPage, "end-page", 0, "Last page of document-scoped retrieval (0 = unbounded)")
	queryCmd.Flags().StringVar(&queryCSVInput, "csv-input", "", "CSV file of queries to answer in batch")
	queryCmd.Flags().StringVar(&queryCSVOutput, "csv-output", "", "CSV file for batch results (default stdout)")

	addClientFlags(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryText == "" && queryCSVInput == "" {
		return fmt.Errorf("either --query or --csv-input is required")
	}

	client, _, err := initializeClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if queryCSVInput != "" {
		return runBatch(ctx, client)
	}
	return runSingle(ctx, client)
}

func baseRequest(query, strategy string) polisearch.Request {
	req := polisearch.Request{
		Query:    query,
		Strategy: strategy,
		TopK:     queryTopK,
	}
	req.Context.Branch = queryBranch
	req.Context.Category = queryCategory
	req.Context.Library = queryLibrary
	req.Context.Filename = queryFilename
	req.Context.Language = queryLanguage
	req.Context.StartPage = queryStartPage
	req.Context.EndPage = queryEndPage
	return req
}

func runSingle(ctx context.Context, client *polisearch.Client) error {
	resp, err := client.Run(ctx, baseRequest(queryText, queryStrategy))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// batchColumns is the result schema of batch mode. top_question is kept for
// compatibility with downstream spreadsheets and is always empty.
var batchColumns = []string{
	"query", "strategy_requested", "strategy_used", "attempts", "confidence",
	"result_count", "top_file", "top_page", "top_snippet", "top_question", "top_answer",
}

func runBatch(ctx context.Context, client *polisearch.Client) error {
	in, err := os.Open(queryCSVInput)
	if err != nil {
		return fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer in.Close()

	out := os.Stdout
	if queryCSVOutput != "" {
		f, err := os.Create(queryCSVOutput)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer f.Close()
		out = f
	}

	return processBatch(ctx, client, in, out)
}

// processBatch answers every row of the input CSV and writes one result row
// per answered query. Malformed rows and failed queries are reported to
// stderr and skipped; they never truncate the batch.
func processBatch(ctx context.Context, runner polisearch.QueryRunner, in io.Reader, out io.Writer) error {
	reader := csv.NewReader(in)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	queryCol, strategyCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "query":
			queryCol = i
		case "strategy":
			strategyCol = i
		}
	}
	if queryCol < 0 {
		return fmt.Errorf("input CSV has no \"query\" column")
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(batchColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping malformed row: %v\n", err)
			continue
		}
		row++

		if queryCol >= len(record) {
			fmt.Fprintf(os.Stderr, "row %d has no query column\n", row)
			continue
		}
		query := strings.TrimSpace(record[queryCol])
		if query == "" {
			continue
		}
		strategy := queryStrategy
		if strategyCol >= 0 && strategyCol < len(record) {
			if s := strings.TrimSpace(record[strategyCol]); s != "" {
				strategy = s
			}
		}

		resp, err := runner.Run(ctx, baseRequest(query, strategy))
		if err != nil {
			fmt.Fprintf(os.Stderr, "row %d failed: %v\n", row, err)
			continue
		}

		if err := writer.Write([]string{
			query,
			strategy,
			string(resp.StrategyUsed),
			strconv.Itoa(resp.Attempts),
			strconv.FormatFloat(resp.Confidence, 'f', 4, 64),
			strconv.Itoa(resp.ResultCount),
			resp.TopFile,
			strconv.Itoa(resp.TopPage),
			resp.TopSnippet,
			"",
			resp.Answer,
		}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Processed %d queries\n", row)
	return nil
}
