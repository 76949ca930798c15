package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/akrzos/jetlag-mcp/pkg/project"
	"github.com/akrzos/jetlag-mcp/pkg/runner"
	"github.com/akrzos/jetlag-mcp/pkg/vars"
)

// Handlers bundles the shared project root and runner behind the
// tool handlers. Every call is independent; the only state is the
// filesystem effects a call produces.
type Handlers struct {
	Root   *project.Root
	Runner *runner.Runner
}

// ListPlaybooks implements the jetlag/list_playbooks tool.
func (h *Handlers) ListPlaybooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playbooks, err := h.Root.Playbooks()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(playbooks), nil
}

// ListRoles implements the jetlag/list_roles tool.
func (h *Handlers) ListRoles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roles, err := h.Root.Roles()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(roles), nil
}

// ListDocs implements the jetlag/list_docs tool.
func (h *Handlers) ListDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.Root.Docs()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(docs), nil
}

// ReadTextFile implements the jetlag/read_text_file tool.
func (h *Handlers) ReadTextFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	rel, _ := args["relative_path"].(string)
	if rel == "" {
		return textError("invalid_input: relative_path argument is required"), nil
	}
	content, err := h.Root.ReadText(rel)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(content), nil
}

// RunPlaybook implements the jetlag/run_playbook tool. Invalid input
// and containment violations are reported before any process spawns;
// a timed-out or non-zero-exit run is a structured payload, not a
// transport error.
func (h *Handlers) RunPlaybook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	run := &runner.Request{}
	run.Playbook, _ = args["playbook_name"].(string)
	if run.Playbook == "" {
		return textError("invalid_input: playbook_name argument is required"), nil
	}
	run.Inventory, _ = args["inventory_relpath"].(string)
	run.Limit, _ = args["limit"].(string)
	run.ExtraVars, _ = args["extra_vars_json"].(string)
	if check, ok := args["check"].(bool); ok {
		run.Check = check
	}
	if timeout, ok := args["timeout_seconds"].(float64); ok {
		run.TimeoutSeconds = int(timeout)
	}
	if rawTags, ok := args["tags"].([]any); ok {
		for _, t := range rawTags {
			run.Tags = append(run.Tags, fmt.Sprint(t))
		}
	}

	result, err := h.Runner.Run(ctx, run)
	if err != nil {
		return errorResult(err), nil
	}

	payload := map[string]any{
		"stdout":    result.Stdout,
		"stderr":    result.Stderr,
		"timed_out": result.TimedOut,
		"command":   result.Command,
		"duration":  result.Duration.String(),
	}
	if result.ExitCode != nil {
		payload["exit_code"] = *result.ExitCode
	}
	return jsonResult(payload), nil
}

// CreateVarsFile implements the jetlag/create_vars_file tool.
func (h *Handlers) CreateVarsFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := decodeSpec(req.GetArguments())
	if err != nil {
		return textError(fmt.Sprintf("invalid_input: %v", err)), nil
	}
	written, err := vars.Synthesize(h.Root, spec)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"written": written}), nil
}

// Schema implements the jetlag/schema tool.
func (h *Handlers) Schema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	schemaType, _ := args["type"].(string)

	var data []byte
	var err error
	switch schemaType {
	case "cluster-vars":
		data, err = vars.GenerateJSONSchema()
	case "request":
		data, err = runner.GenerateJSONSchema()
	default:
		return textError(fmt.Sprintf("invalid_input: unknown schema type %q, use 'cluster-vars' or 'request'", schemaType)), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(string(data)), nil
}

// decodeSpec maps the free-form tool arguments onto the typed Spec
// via a JSON round-trip.
func decodeSpec(args map[string]any) (*vars.Spec, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal arguments: %w", err)
	}
	spec := &vars.Spec{}
	if err := json.Unmarshal(raw, spec); err != nil {
		return nil, fmt.Errorf("arguments do not match the cluster vars spec: %w", err)
	}
	return spec, nil
}

// kind maps an error to its taxonomy name so callers can distinguish
// failure classes from the result text alone.
func kind(err error) string {
	var invalidInput *runner.InvalidInputError
	var invalidSpec *vars.InvalidSpecError
	var spawn *runner.SpawnError
	switch {
	case errors.Is(err, project.ErrEscape):
		return "path_escape"
	case errors.Is(err, project.ErrNotFound):
		return "not_found"
	case errors.Is(err, project.ErrDecode):
		return "decode_error"
	case errors.As(err, &invalidInput), errors.As(err, &invalidSpec):
		return "invalid_input"
	case errors.As(err, &spawn):
		return "spawn_failed"
	}
	return "error"
}

func errorResult(err error) *mcp.CallToolResult {
	return textError(fmt.Sprintf("%s: %v", kind(err), err))
}

func jsonResult(payload any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return textError(fmt.Sprintf("error: marshal result: %v", err))
	}
	return textResult(string(data))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func textError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
