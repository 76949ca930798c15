package vars

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document
// for the cluster vars Spec using invopop/jsonschema. It doubles as
// the semantic-validation schema and the agent-facing contract
// exported by the schema tool.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Spec{})
	s.ID = "https://github.com/akrzos/jetlag-mcp/schemas/cluster-vars-v0.json"
	s.Title = "Jetlag Cluster Vars"
	s.Description = "Schema for the typed inputs of ansible/vars/all.yml synthesis"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
