package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/akrzos/jetlag-mcp/pkg/project"
	"github.com/akrzos/jetlag-mcp/pkg/runner"
)

// countingSpawner fails the test if anything is ever spawned.
type countingSpawner struct {
	t     *testing.T
	calls int
}

func (c *countingSpawner) Spawn(ctx context.Context, argv []string, dir string, env []string) (*runner.Outcome, error) {
	c.calls++
	return &runner.Outcome{}, nil
}

func newTestHandlers(t *testing.T) (*Handlers, *countingSpawner) {
	t.Helper()
	dir := t.TempDir()
	for _, rel := range []string{
		"ansible/sno-deploy.yml",
		"ansible/roles/bastion/tasks/main.yml",
		"docs/deploy-sno.md",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("---\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	root, err := project.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	spawner := &countingSpawner{t: t}
	return &Handlers{
		Root:   root,
		Runner: runner.New(root, spawner, zerolog.Nop()),
	}, spawner
}

func callArgs(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestListPlaybooks(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.ListPlaybooks(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("IsError: %s", resultText(t, result))
	}
	var playbooks []project.Playbook
	if err := json.Unmarshal([]byte(resultText(t, result)), &playbooks); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if len(playbooks) != 1 || playbooks[0].Name != "sno-deploy.yml" {
		t.Errorf("playbooks = %v", playbooks)
	}
}

func TestListRoles(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.ListRoles(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, result), "bastion") {
		t.Errorf("roles payload = %s", resultText(t, result))
	}
}

func TestReadTextFile_MissingArg(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.ReadTextFile(context.Background(), callArgs(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing relative_path")
	}
}

func TestReadTextFile_EscapeKind(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.ReadTextFile(context.Background(), callArgs(map[string]any{
		"relative_path": "../../etc/passwd",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error for escaping path")
	}
	if !strings.HasPrefix(resultText(t, result), "path_escape:") {
		t.Errorf("error kind missing: %s", resultText(t, result))
	}
}

func TestRunPlaybook_InvalidExtraVarsNeverSpawns(t *testing.T) {
	h, spawner := newTestHandlers(t)
	result, err := h.RunPlaybook(context.Background(), callArgs(map[string]any{
		"playbook_name":   "sno-deploy.yml",
		"extra_vars_json": "[1,2,3]",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error for array extra vars")
	}
	if !strings.HasPrefix(resultText(t, result), "invalid_input:") {
		t.Errorf("error kind missing: %s", resultText(t, result))
	}
	if spawner.calls != 0 {
		t.Errorf("spawner called %d times", spawner.calls)
	}
}

func TestRunPlaybook_UnknownPlaybook(t *testing.T) {
	h, spawner := newTestHandlers(t)
	result, err := h.RunPlaybook(context.Background(), callArgs(map[string]any{
		"playbook_name": "ghost.yml",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error for unknown playbook")
	}
	if !strings.HasPrefix(resultText(t, result), "not_found:") {
		t.Errorf("error kind missing: %s", resultText(t, result))
	}
	if spawner.calls != 0 {
		t.Errorf("spawner called %d times", spawner.calls)
	}
}

func TestRunPlaybook_Completed(t *testing.T) {
	h, spawner := newTestHandlers(t)
	result, err := h.RunPlaybook(context.Background(), callArgs(map[string]any{
		"playbook_name": "sno-deploy.yml",
		"tags":          []any{"install", "network"},
		"check":         true,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("IsError: %s", resultText(t, result))
	}
	if spawner.calls != 1 {
		t.Fatalf("spawner calls = %d", spawner.calls)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["exit_code"] != float64(0) {
		t.Errorf("exit_code = %v", payload["exit_code"])
	}
	if payload["timed_out"] != false {
		t.Errorf("timed_out = %v", payload["timed_out"])
	}
}

func TestCreateVarsFile(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.CreateVarsFile(context.Background(), callArgs(map[string]any{
		"lab":          "scalelab",
		"lab_cloud":    "cloud99",
		"cluster_type": "sno",
		"ocp_build":    "ga",
		"ocp_version":  "latest-4.16",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("IsError: %s", resultText(t, result))
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(payload["written"]); err != nil {
		t.Errorf("written file missing: %v", err)
	}
}

func TestCreateVarsFile_BadClusterType(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.CreateVarsFile(context.Background(), callArgs(map[string]any{
		"lab":          "scalelab",
		"lab_cloud":    "cloud99",
		"cluster_type": "hypershift",
		"ocp_build":    "ga",
		"ocp_version":  "latest-4.16",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error for unrecognized cluster_type")
	}
	if !strings.HasPrefix(resultText(t, result), "invalid_input:") {
		t.Errorf("error kind missing: %s", resultText(t, result))
	}
}

func TestSchema_ClusterVars(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.Schema(context.Background(), callArgs(map[string]any{"type": "cluster-vars"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("IsError: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "cluster_type") {
		t.Error("schema payload missing cluster_type")
	}
}

func TestSchema_UnknownType(t *testing.T) {
	h, _ := newTestHandlers(t)
	result, err := h.Schema(context.Background(), callArgs(map[string]any{"type": "foo"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for unknown schema type")
	}
}
