package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akrzos/jetlag-mcp/pkg/project"
)

const playbookBin = "ansible-playbook"

// venvBin is the project-local ansible install, preferred over PATH
// lookup when present (jetlag's setup script creates it).
const venvBin = ".ansible/bin/ansible-playbook"

// BuildCommand turns a validated Request into the argv for one
// ansible-playbook invocation. Flags are appended in a fixed order:
// inventory, limit, tags (one flag per entry), extra vars, check.
// Every caller-supplied value becomes a single argv element; nothing
// is ever concatenated into a shell string, so adversarial content in
// limit/tags/extra-vars cannot introduce extra arguments.
func BuildCommand(root *project.Root, req *Request) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The playbook must live directly in the ansible tree.
	playbookPath, err := root.ResolveUnder(project.AnsibleDir, req.Playbook)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(playbookPath); err != nil {
		return nil, fmt.Errorf("%w: playbook %s", project.ErrNotFound, req.Playbook)
	}

	argv := []string{executable(root), playbookPath}

	if req.Inventory != "" {
		inv, err := root.ResolveExisting(req.Inventory)
		if err != nil {
			return nil, err
		}
		argv = append(argv, "-i", inv)
	}
	if req.Limit != "" {
		argv = append(argv, "--limit", req.Limit)
	}
	for _, tag := range req.Tags {
		argv = append(argv, "--tags", tag)
	}
	if req.ExtraVars != "" {
		argv = append(argv, "-e", req.ExtraVars)
	}
	if req.Check {
		argv = append(argv, "--check")
	}
	return argv, nil
}

// executable picks the project venv ansible-playbook when it exists,
// falling back to PATH lookup.
func executable(root *project.Root) string {
	venv := filepath.Join(root.Dir(), filepath.FromSlash(venvBin))
	if info, err := os.Stat(venv); err == nil && info.Mode().IsRegular() {
		return venv
	}
	return playbookBin
}

// Environ returns the child environment: the inherited one, plus
// ANSIBLE_CONFIG pinned to the project's ansible.cfg when present so
// the tool behaves as it would when invoked manually from the root.
func Environ(root *project.Root) []string {
	env := os.Environ()
	cfg := filepath.Join(root.Dir(), "ansible.cfg")
	if _, err := os.Stat(cfg); err == nil {
		env = append(env, "ANSIBLE_CONFIG="+cfg)
	}
	return env
}
