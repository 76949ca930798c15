package runner

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document
// for the execution Request, the agent-facing contract of the
// run-playbook tool.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Request{})
	s.ID = "https://github.com/akrzos/jetlag-mcp/schemas/run-request-v0.json"
	s.Title = "Jetlag Playbook Run Request"
	s.Description = "Schema for one ansible-playbook execution request"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal request schema: %w", err)
	}
	return data, nil
}
