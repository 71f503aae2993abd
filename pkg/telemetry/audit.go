package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/polisearch/polisearch/pkg/types"
)

// QueryRecord is the Parquet schema for one completed orchestration session.
type QueryRecord struct {
	SessionID    string    `parquet:"session_id"`
	Timestamp    time.Time `parquet:"timestamp"`
	Query        string    `parquet:"query"`
	Status       string    `parquet:"status"`
	StrategyUsed string    `parquet:"strategy_used"`
	Attempts     int       `parquet:"attempts"`
	Confidence   float64   `parquet:"confidence"`
	ResultCount  int       `parquet:"result_count"`
	TopFile      string    `parquet:"top_file"`
	TopPage      int       `parquet:"top_page"`
	AnswerLength int       `parquet:"answer_length"`
	ProcessingMS int64     `parquet:"processing_time_ms"`
}

// AuditWriter accumulates query records and flushes them to Parquet files.
// Safe for concurrent use by multiple sessions.
type AuditWriter struct {
	outputDir string
	mu        sync.Mutex
	buffer    []QueryRecord
	batchSize int
}

// NewAuditWriter creates an AuditWriter rooted at outputDir.
func NewAuditWriter(outputDir string) (*AuditWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	return &AuditWriter{
		outputDir: outputDir,
		batchSize: 50,
		buffer:    make([]QueryRecord, 0, 50),
	}, nil
}

// Record buffers one session outcome.
func (w *AuditWriter) Record(sessionID, query string, resp *types.FinalResponse) {
	if resp == nil {
		return
	}
	rec := QueryRecord{
		SessionID:    sessionID,
		Timestamp:    time.Now().UTC(),
		Query:        query,
		Status:       string(resp.Status),
		StrategyUsed: string(resp.StrategyUsed),
		Attempts:     resp.Attempts,
		Confidence:   resp.Confidence,
		ResultCount:  resp.ResultCount,
		TopFile:      resp.TopFile,
		TopPage:      resp.TopPage,
		AnswerLength: len(resp.Answer),
		ProcessingMS: resp.ProcessingMS,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer = append(w.buffer, rec)
	if len(w.buffer) >= w.batchSize {
		_ = w.flush()
	}
}

// Flush writes any buffered records to disk.
func (w *AuditWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flush()
}

func (w *AuditWriter) flush() error {
	if len(w.buffer) == 0 {
		return nil
	}
	filename := fmt.Sprintf("queries_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(w.outputDir, filename)
	if err := parquet.WriteFile(path, w.buffer); err != nil {
		return fmt.Errorf("failed to write audit parquet file: %w", err)
	}
	w.buffer = w.buffer[:0]
	return nil
}
