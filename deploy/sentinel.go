package deploy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felipemarinho97/cockpit-deploy/phases"
)

// CompletionRecord is the JSON document a phase writes on the target
// when it finishes successfully.
type CompletionRecord struct {
	Phase       string    `json:"phase"`
	Schema      int       `json:"schema"`
	CompletedAt time.Time `json:"completed_at"`
	CommandID   string    `json:"command_id,omitempty"`
}

// ParseCompletionRecord validates raw sentinel content against the phase
// it is supposed to belong to. Callers treat any error as not-started.
func ParseCompletionRecord(raw []byte, phase phases.Name) (CompletionRecord, error) {
	var rec CompletionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return CompletionRecord{}, fmt.Errorf("parsing completion record: %w", err)
	}

	if rec.Phase != string(phase) {
		return CompletionRecord{}, fmt.Errorf("completion record names phase %q, expected %q", rec.Phase, phase)
	}
	if rec.Schema != phases.SentinelSchema {
		return CompletionRecord{}, fmt.Errorf("completion record schema %d is not supported", rec.Schema)
	}

	return rec, nil
}
