package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LocalProvider keeps one JSON array file per collection inside a directory
// on the current device. A disabled provider has no storage facility: reads
// find nothing and writes are discarded.
type LocalProvider struct {
	dir     string
	enabled bool
	mu      sync.Mutex
}

func NewLocalProvider(dir string, enabled bool) (*LocalProvider, error) {
	if enabled {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &LocalProvider{dir: dir, enabled: enabled}, nil
}

func (p *LocalProvider) Kind() Kind { return KindLocal }

// Path returns the file backing c.
func (p *LocalProvider) Path(c Collection) string {
	return filepath.Join(p.dir, c.Key()+".json")
}

func (p *LocalProvider) Read(ctx context.Context, c Collection) ([]Record, bool, error) {
	if !p.enabled {
		return nil, false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.Path(c))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", c.Key(), err)
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", c.Key(), err)
	}
	if docs == nil {
		// a stored JSON null counts as nothing stored
		return nil, false, nil
	}

	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		rec, err := RecordFromJSON(doc)
		if err != nil {
			return nil, false, fmt.Errorf("decode %s item %d: %w", c.Key(), i, err)
		}
		records = append(records, rec)
	}
	return records, true, nil
}

func (p *LocalProvider) Write(ctx context.Context, c Collection, records []Record) error {
	if !p.enabled {
		slog.DebugContext(ctx, "Local storage disabled, discarding write", "collection", c.String(), "count", len(records))
		return nil
	}

	docs := make([]json.RawMessage, len(records))
	for i, r := range records {
		docs[i] = r.Data
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Key(), err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tmp, err := os.CreateTemp(p.dir, "."+c.Key()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", c.Key(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Key(), err)
	}
	if err := os.Rename(tmp.Name(), p.Path(c)); err != nil {
		return fmt.Errorf("replace %s: %w", c.Key(), err)
	}
	return nil
}

func (p *LocalProvider) Close() error { return nil }
