// Package store persists decisions and the evidence behind them. Records
// are write-once: a stored decision is never updated or deleted, matching
// the append-only audit posture of the ledger.
package store

import (
	"errors"

	"github.com/atlasmv/atlas/internal/model"
)

var (
	// ErrAlreadyStored is returned when a record id is saved twice.
	ErrAlreadyStored = errors.New("decision already stored")
	// ErrDecisionNotFound is returned when a decision id is unknown.
	ErrDecisionNotFound = errors.New("decision not found")
	// ErrEvidenceNotFound is returned when no evidence record exists for an id.
	ErrEvidenceNotFound = errors.New("evidence not found")
)

// Evidence is the frozen ledger contents that produced one decision.
// It is keyed by the decision id so the chain of custody survives the
// process that built it.
type Evidence struct {
	DecisionID string         `json:"decision_id"`
	Sources    []model.Source `json:"sources"`
	Claims     []model.Claim  `json:"claims"`
}

// Store is the persistence interface for decisions and their evidence.
type Store interface {
	Save(d model.Decision) error
	Load(id string) (model.Decision, error)
	List() ([]string, error)

	SaveEvidence(ev Evidence) error
	LoadEvidence(decisionID string) (Evidence, error)
}
