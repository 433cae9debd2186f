package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlasmv/atlas/internal/model"
)

// FileStore keeps each decision as one JSON file under dir/decisions.
// O_EXCL on create enforces write-once at the filesystem level.
type FileStore struct {
	dir string
}

// NewFileStore creates the store, making the directory tree if needed.
func NewFileStore(dir string) (*FileStore, error) {
	for _, sub := range []string{"decisions", "evidence"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the decision. Saving an id twice fails with ErrAlreadyStored.
func (s *FileStore) Save(d model.Decision) error {
	if d.ID == "" {
		return fmt.Errorf("decision has no id")
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	return s.writeOnce(s.path(d.ID), d.ID, data)
}

// SaveEvidence writes the evidence record behind a decision. Like decisions,
// evidence is write-once per id.
func (s *FileStore) SaveEvidence(ev Evidence) error {
	if ev.DecisionID == "" {
		return fmt.Errorf("evidence has no decision id")
	}
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	return s.writeOnce(s.evidencePath(ev.DecisionID), ev.DecisionID, data)
}

// LoadEvidence reads the evidence record for a decision id.
func (s *FileStore) LoadEvidence(decisionID string) (Evidence, error) {
	data, err := os.ReadFile(s.evidencePath(decisionID))
	if err != nil {
		if os.IsNotExist(err) {
			return Evidence{}, fmt.Errorf("%s: %w", decisionID, ErrEvidenceNotFound)
		}
		return Evidence{}, fmt.Errorf("read evidence: %w", err)
	}
	var ev Evidence
	if err := json.Unmarshal(data, &ev); err != nil {
		return Evidence{}, fmt.Errorf("decode evidence: %w", err)
	}
	return ev, nil
}

func (s *FileStore) writeOnce(path, id string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", id, ErrAlreadyStored)
		}
		return fmt.Errorf("create store file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

// Load reads a decision by id.
func (s *FileStore) Load(id string) (model.Decision, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Decision{}, fmt.Errorf("%s: %w", id, ErrDecisionNotFound)
		}
		return model.Decision{}, fmt.Errorf("read decision: %w", err)
	}
	var d model.Decision
	if err := json.Unmarshal(data, &d); err != nil {
		return model.Decision{}, fmt.Errorf("decode decision: %w", err)
	}
	return d, nil
}

// List returns stored decision ids sorted lexically.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "decisions"))
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, "decisions", id+".json")
}

func (s *FileStore) evidencePath(id string) string {
	return filepath.Join(s.dir, "evidence", id+".json")
}
