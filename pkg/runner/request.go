// Package runner translates structured playbook-execution requests
// into ansible-playbook invocations and runs them under a wall-clock
// budget, confined to the project root.
package runner

import (
	"encoding/json"
	"fmt"
)

// Request describes one ansible-playbook invocation. Optional fields
// are zero-valued when absent; Tags keeps caller order and duplicates.
type Request struct {
	Playbook       string   `json:"playbook_name"`
	Inventory      string   `json:"inventory_relpath,omitempty"`
	Limit          string   `json:"limit,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	ExtraVars      string   `json:"extra_vars_json,omitempty"` // raw JSON object text, passed through verbatim
	Check          bool     `json:"check,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// InvalidInputError reports a malformed request field. It is detected
// before any subprocess is spawned and is distinct from execution
// failures.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate fails fast on request shapes that must never reach a
// subprocess: a missing playbook name, a negative timeout, or
// extra-vars text that is not a JSON object.
func (r *Request) Validate() error {
	if r.Playbook == "" {
		return &InvalidInputError{Field: "playbook_name", Reason: "must not be empty"}
	}
	if r.TimeoutSeconds < 0 {
		return &InvalidInputError{Field: "timeout_seconds", Reason: "must not be negative"}
	}
	if r.ExtraVars != "" {
		var obj map[string]any
		// Unmarshal into a map rejects arrays and scalars; JSON null
		// slips through as a nil map and is rejected explicitly.
		if err := json.Unmarshal([]byte(r.ExtraVars), &obj); err != nil || obj == nil {
			return &InvalidInputError{Field: "extra_vars_json", Reason: "must be a JSON object"}
		}
	}
	return nil
}
