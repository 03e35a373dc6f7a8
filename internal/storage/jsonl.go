package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"revenueScope/internal/model"
)

// JsonlStorage appends chain metrics to a JSONL file, or to a writer such as stdout.
type JsonlStorage struct {
	path   string
	writer io.Writer
	mu     sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// NewJsonlWriter writes to w instead of a file.
func NewJsonlWriter(w io.Writer) *JsonlStorage {
	return &JsonlStorage{writer: w}
}

// PutMetricsBatch appends a batch of metrics as JSON lines.
func (s *JsonlStorage) PutMetricsBatch(_ context.Context, metrics []model.ChainMetrics) error {
	if len(metrics) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer != nil {
		return writeLines(s.writer, metrics)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	return writeLines(file, metrics)
}

func writeLines(w io.Writer, metrics []model.ChainMetrics) error {
	writer := bufio.NewWriter(w)
	for _, record := range metrics {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal chain metrics: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write chain metrics: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
