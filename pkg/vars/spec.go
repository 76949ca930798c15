// Package vars synthesizes the ansible/vars/all.yml configuration
// file from a typed cluster specification. The file is regenerated
// whole on every call: idempotent output from the spec, never an
// incremental edit of a previous file.
package vars

import "fmt"

// ClusterType selects the cluster shape jetlag deploys. The raw
// values are what the playbooks consume; sno is the single-node
// topology, mno and vmno are multi-node.
type ClusterType string

const (
	SNO  ClusterType = "sno"
	MNO  ClusterType = "mno"
	VMNO ClusterType = "vmno"
)

// Recognized reports whether t is a supported cluster type.
func (t ClusterType) Recognized() bool {
	switch t {
	case SNO, MNO, VMNO:
		return true
	}
	return false
}

// SingleNode reports whether t is the single-node topology, which
// decides the install-disk key set written to the vars file.
func (t ClusterType) SingleNode() bool { return t == SNO }

// Defaults applied when the optional fields are empty.
const (
	DefaultSSHPrivateKey  = "~/.ssh/id_rsa"
	DefaultSSHPublicKey   = "~/.ssh/id_rsa.pub"
	DefaultPullSecretPath = "../pull_secret.txt"
)

// Spec is the typed input for one all.yml synthesis. Optional fields
// are zero-valued when absent; fields irrelevant to the chosen
// topology are never written, not even as empty placeholders.
type Spec struct {
	Lab         string      `json:"lab"`
	LabCloud    string      `json:"lab_cloud"`
	ClusterType ClusterType `json:"cluster_type" jsonschema:"enum=sno,enum=mno,enum=vmno"`
	OCPBuild    string      `json:"ocp_build"`
	OCPVersion  string      `json:"ocp_version"`

	PublicVLAN    bool `json:"public_vlan,omitempty"`
	SNOUseLabDHCP bool `json:"sno_use_lab_dhcp,omitempty"`

	SSHPrivateKeyFile string `json:"ssh_private_key_file,omitempty"`
	SSHPublicKeyFile  string `json:"ssh_public_key_file,omitempty"`

	SNOInstallDisk          string `json:"sno_install_disk,omitempty"`
	ControlPlaneInstallDisk string `json:"control_plane_install_disk,omitempty"`
	WorkerInstallDisk       string `json:"worker_install_disk,omitempty"`
	WorkerNodeCount         *int   `json:"worker_node_count,omitempty"`

	// PullSecretPath is the relative file path the written lookup
	// expression points at. The secret's bytes are never read here.
	PullSecretPath string `json:"pull_secret_path,omitempty"`

	// ExtraVars are free-form overrides merged last, so they win
	// over every computed field.
	ExtraVars map[string]any `json:"extra_vars,omitempty"`
}

// PullSecretLookup is the reference expression written for the
// pull_secret key: resolved by ansible at its own execution time,
// never inlined by this system.
func (s *Spec) PullSecretLookup() string {
	path := s.PullSecretPath
	if path == "" {
		path = DefaultPullSecretPath
	}
	return fmt.Sprintf("{{ lookup('file', '%s') }}", path)
}
