// Package mcp exposes the jetlag project operations as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/akrzos/jetlag-mcp/pkg/project"
	"github.com/akrzos/jetlag-mcp/pkg/runner"
)

// NewServer creates an MCP server with the jetlag tools registered.
// All tools share the one immutable project root.
func NewServer(root *project.Root, version string, log zerolog.Logger) *server.MCPServer {
	h := &Handlers{
		Root:   root,
		Runner: runner.New(root, runner.ExecSpawner{}, log),
	}

	s := server.NewMCPServer(
		"jetlag-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("jetlag/list_playbooks",
			mcp.WithDescription("List top-level ansible playbooks in the jetlag project"),
		),
		h.ListPlaybooks,
	)

	s.AddTool(
		mcp.NewTool("jetlag/list_roles",
			mcp.WithDescription("List ansible role names available under ansible/roles"),
		),
		h.ListRoles,
	)

	s.AddTool(
		mcp.NewTool("jetlag/list_docs",
			mcp.WithDescription("List markdown documentation files under docs/"),
		),
		h.ListDocs,
	)

	s.AddTool(
		mcp.NewTool("jetlag/read_text_file",
			mcp.WithDescription("Read a UTF-8 text file from the jetlag project by relative path"),
			mcp.WithString("relative_path", mcp.Required(), mcp.Description("Path relative to the project root, forward slashes")),
		),
		h.ReadTextFile,
	)

	s.AddTool(
		mcp.NewTool("jetlag/run_playbook",
			mcp.WithDescription("Run an ansible playbook by name (top-level file under ansible/)"),
			mcp.WithString("playbook_name", mcp.Required(), mcp.Description("Playbook file name, e.g. sno-deploy.yml")),
			mcp.WithString("inventory_relpath", mcp.Description("Inventory path relative to the project root")),
			mcp.WithString("limit", mcp.Description("Ansible --limit pattern")),
			mcp.WithArray("tags", mcp.Description("Tags, one --tags flag per entry, order preserved")),
			mcp.WithString("extra_vars_json", mcp.Description("JSON object passed verbatim with -e")),
			mcp.WithBoolean("check", mcp.Description("Run with --check (dry run)")),
			mcp.WithNumber("timeout_seconds", mcp.Description("Wall-clock budget in seconds; default 2h")),
		),
		h.RunPlaybook,
	)

	s.AddTool(
		mcp.NewTool("jetlag/create_vars_file",
			mcp.WithDescription("Synthesize ansible/vars/all.yml from typed cluster fields"),
			mcp.WithString("lab", mcp.Required(), mcp.Description("Lab name, e.g. scalelab")),
			mcp.WithString("lab_cloud", mcp.Required(), mcp.Description("Lab cloud allocation, e.g. cloud99")),
			mcp.WithString("cluster_type", mcp.Required(), mcp.Description("sno, mno, or vmno")),
			mcp.WithString("ocp_build", mcp.Required(), mcp.Description("OCP build stream, e.g. ga")),
			mcp.WithString("ocp_version", mcp.Required(), mcp.Description("OCP version, e.g. latest-4.16")),
			mcp.WithBoolean("public_vlan", mcp.Description("Deploy on the public VLAN")),
			mcp.WithBoolean("sno_use_lab_dhcp", mcp.Description("Use lab DHCP addressing for SNO")),
			mcp.WithString("ssh_private_key_file", mcp.Description("Private key path; default ~/.ssh/id_rsa")),
			mcp.WithString("ssh_public_key_file", mcp.Description("Public key path; default ~/.ssh/id_rsa.pub")),
			mcp.WithString("sno_install_disk", mcp.Description("Install disk for single-node clusters")),
			mcp.WithString("control_plane_install_disk", mcp.Description("Install disk for multi-node control plane")),
			mcp.WithString("worker_install_disk", mcp.Description("Install disk for multi-node workers")),
			mcp.WithNumber("worker_node_count", mcp.Description("Worker count for multi-node clusters")),
			mcp.WithString("pull_secret_path", mcp.Description("Relative path the pull_secret lookup points at; default ../pull_secret.txt")),
			mcp.WithObject("extra_vars", mcp.Description("Free-form overrides merged last")),
		),
		h.CreateVarsFile,
	)

	s.AddTool(
		mcp.NewTool("jetlag/schema",
			mcp.WithDescription("Export JSON Schema (cluster-vars or request)"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Schema type: 'cluster-vars' or 'request'")),
		),
		h.Schema,
	)

	return s
}
