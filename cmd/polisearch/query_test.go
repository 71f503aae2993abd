package polisearch

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisearch/polisearch"
	"github.com/polisearch/polisearch/pkg/types"
)

type batchRunner struct {
	queries []string
	failOn  string
}

func (r *batchRunner) Run(ctx context.Context, req polisearch.Request) (*types.FinalResponse, error) {
	r.queries = append(r.queries, req.Query)
	if r.failOn != "" && req.Query == r.failOn {
		return nil, errors.New("backend unavailable")
	}
	return &types.FinalResponse{
		Status:       types.StatusOK,
		Answer:       "answer to " + req.Query,
		StrategyUsed: types.StrategyQAPairs,
		Attempts:     1,
		Confidence:   0.9,
	}, nil
}

func readBatchOutput(t *testing.T, out *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(out).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestProcessBatchAnswersEveryRow(t *testing.T) {
	in := strings.NewReader("query,strategy\n" +
		"What does Plan A cover?,\n" +
		"What is the levy rate?,qa_pairs\n")
	var out bytes.Buffer
	runner := &batchRunner{}

	require.NoError(t, processBatch(context.Background(), runner, in, &out))

	rows := readBatchOutput(t, &out)
	require.Len(t, rows, 3)
	assert.Equal(t, batchColumns, rows[0])
	assert.Equal(t, "What does Plan A cover?", rows[1][0])
	assert.Equal(t, "qa_pairs", rows[2][1])
	assert.Equal(t, "", rows[1][9]) // top_question stays empty
}

func TestProcessBatchSkipsMalformedRows(t *testing.T) {
	// The second data line has the wrong field count; the rows after it
	// must still be answered.
	in := strings.NewReader("query,strategy\n" +
		"What does Plan A cover?,\n" +
		"broken,row,with,extra,fields\n" +
		"What is the levy rate?,\n")
	var out bytes.Buffer
	runner := &batchRunner{}

	require.NoError(t, processBatch(context.Background(), runner, in, &out))

	assert.Equal(t, []string{"What does Plan A cover?"}, runner.queries[:1])
	assert.Contains(t, runner.queries, "What is the levy rate?")

	rows := readBatchOutput(t, &out)
	require.Len(t, rows, 3)
	assert.Equal(t, "What is the levy rate?", rows[2][0])
}

func TestProcessBatchReportsFailedQueries(t *testing.T) {
	in := strings.NewReader("query\n" +
		"first question?\n" +
		"second question?\n")
	var out bytes.Buffer
	runner := &batchRunner{failOn: "first question?"}

	require.NoError(t, processBatch(context.Background(), runner, in, &out))

	rows := readBatchOutput(t, &out)
	require.Len(t, rows, 2)
	assert.Equal(t, "second question?", rows[1][0])
}

func TestProcessBatchRequiresQueryColumn(t *testing.T) {
	in := strings.NewReader("question\nWhat does Plan A cover?\n")
	var out bytes.Buffer

	err := processBatch(context.Background(), &batchRunner{}, in, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")
}
