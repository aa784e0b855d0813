package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agakshita/voxhire/internal/interview"
)

// FileSink writes finished reports as JSON files, one per room.
type FileSink struct {
	dir string
}

// NewFileSink creates the reports directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// ReportReady writes the report to <dir>/<roomID>_report.json, replacing
// any previous file for the room.
func (s *FileSink) ReportReady(ctx context.Context, report *interview.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	path := filepath.Join(s.dir, report.RoomID+"_report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}
