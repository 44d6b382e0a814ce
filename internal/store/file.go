package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore keeps one JSON file per recommendation under a shared directory.
// The employee query is a full directory scan; there is no secondary index.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) Save(_ context.Context, rec Recommendation) (Recommendation, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Recommendation{}, fmt.Errorf("create response dir: %w", err)
	}

	stamp := time.Now()
	if t, err := time.Parse(CreatedLayout, rec.Created); err == nil {
		stamp = t
	}
	// A uuid suffix keeps keys unique when two recommendations land within
	// the same second.
	name := fmt.Sprintf("response_%s_%s.json", stamp.Format("20060102_150405"), uuid.NewString())

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Recommendation{}, fmt.Errorf("encode recommendation: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return Recommendation{}, fmt.Errorf("write recommendation: %w", err)
	}
	return rec, nil
}

func (s *FileStore) ListByEmployee(_ context.Context, empID string) ([]Recommendation, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Recommendation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list response dir: %w", err)
	}

	results := make([]Recommendation, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable recommendation", zap.String("file", path), zap.Error(err))
			continue
		}
		var rec Recommendation
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("skipping unparseable recommendation", zap.String("file", path), zap.Error(err))
			continue
		}
		if rec.EmpID == empID {
			results = append(results, rec)
		}
	}

	// ISO-8601 strings sort lexicographically in time order; empty Created
	// values naturally land last under the descending key.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Created > results[j].Created
	})
	return results, nil
}

func (s *FileStore) Close() error { return nil }
