package vars

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/akrzos/jetlag-mcp/pkg/project"
	"gopkg.in/yaml.v3"
)

// FilePath is the one location this system ever writes, relative to
// the project root.
const FilePath = "ansible/vars/all.yml"

// Synthesize validates the spec, builds the field set, and writes
// ansible/vars/all.yml, returning the written path. The file is fully
// regenerated: prior content is replaced, and the write is atomic
// (temp file + rename) so a concurrent reader can never observe a
// truncated file. Equal specs produce byte-identical files.
func Synthesize(root *project.Root, spec *Spec) (string, error) {
	if errs := Validate(spec); len(errs) > 0 {
		return "", &InvalidSpecError{Errs: errs}
	}

	fields := spec.fields()
	if len(spec.ExtraVars) > 0 {
		// Overrides merge last and win over computed defaults.
		if err := mergo.Merge(&fields, spec.ExtraVars, mergo.WithOverride); err != nil {
			return "", fmt.Errorf("merge extra vars: %w", err)
		}
	}

	data, err := yaml.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal vars: %w", err)
	}

	target, err := root.Resolve(FilePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create vars dir: %w", err)
	}
	if err := writeAtomic(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// fields computes the key set for the chosen topology. Keys that are
// irrelevant to it are omitted entirely, never emitted as null or
// empty placeholders.
func (s *Spec) fields() map[string]any {
	sshPriv := s.SSHPrivateKeyFile
	if sshPriv == "" {
		sshPriv = DefaultSSHPrivateKey
	}
	sshPub := s.SSHPublicKeyFile
	if sshPub == "" {
		sshPub = DefaultSSHPublicKey
	}

	f := map[string]any{
		"lab":                  s.Lab,
		"lab_cloud":            s.LabCloud,
		"cluster_type":         string(s.ClusterType),
		"public_vlan":          s.PublicVLAN,
		"ocp_build":            s.OCPBuild,
		"ocp_version":          s.OCPVersion,
		"ssh_private_key_file": sshPriv,
		"ssh_public_key_file":  sshPub,
		"pull_secret":          s.PullSecretLookup(),
	}

	if s.ClusterType.SingleNode() {
		f["sno_use_lab_dhcp"] = s.SNOUseLabDHCP
		if s.SNOInstallDisk != "" {
			f["sno_install_disk"] = s.SNOInstallDisk
		}
	} else {
		if s.ControlPlaneInstallDisk != "" {
			f["control_plane_install_disk"] = s.ControlPlaneInstallDisk
		}
		if s.WorkerInstallDisk != "" {
			f["worker_install_disk"] = s.WorkerInstallDisk
		}
	}
	if s.WorkerNodeCount != nil {
		f["worker_node_count"] = *s.WorkerNodeCount
	}
	return f
}

// writeAtomic materializes content fully in a temp file beside the
// target, then renames it into place.
func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".all.yml.*")
	if err != nil {
		return fmt.Errorf("create temp vars file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp vars file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp vars file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp vars file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace vars file: %w", err)
	}
	return nil
}
