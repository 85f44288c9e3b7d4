package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SolveRecord is one solve run tagged with the problem it solved.
type SolveRecord struct {
	ID      int
	Problem string // problem file or identifier
	Status  string
	SolveMetric
}

type Writer struct {
	baseDir string
}

func NewWriter() (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", "solves", timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteSolveRecords(records []SolveRecord) error {
	path := filepath.Join(w.baseDir, "solves.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create solves file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"id", "problem", "status", "goroutines", "budget", "simulations",
		"oracle_calls", "terminal_revisits", "failures", "proven",
		"tree_size", "duration_ms",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write solves header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.Problem,
			r.Status,
			strconv.Itoa(r.Goroutines),
			strconv.Itoa(r.Budget),
			strconv.Itoa(r.Simulations),
			strconv.Itoa(r.OracleCalls),
			strconv.Itoa(r.TerminalRevisits),
			strconv.Itoa(r.Failures),
			strconv.FormatBool(r.Proven),
			strconv.Itoa(r.TreeSize),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write solve record: %w", err)
		}
	}
	return nil
}
