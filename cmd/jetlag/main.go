// Package main provides the jetlag CLI, the same project operations
// the MCP server exposes, for humans.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/akrzos/jetlag-mcp/pkg/ecosystem/tui"
	"github.com/akrzos/jetlag-mcp/pkg/project"
	"github.com/akrzos/jetlag-mcp/pkg/runner"
	"github.com/akrzos/jetlag-mcp/pkg/vars"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

var projectDir string

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jetlag",
	Short:         "Inspect and drive a jetlag project checkout",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// openRoot resolves the project directory from the flag, the
// JETLAG_DIR env var, or the sibling-checkout default, in that order.
func openRoot() (*project.Root, error) {
	dir := projectDir
	if dir == "" {
		dir = os.Getenv("JETLAG_DIR")
	}
	if dir == "" {
		dir = filepath.Join("..", "jetlag")
	}
	return project.Open(dir)
}

func stderrLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

var playbooksCmd = &cobra.Command{
	Use:   "playbooks",
	Short: "List top-level ansible playbooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		playbooks, err := root.Playbooks()
		if err != nil {
			return err
		}
		for _, pb := range playbooks {
			fmt.Println(pb.Name)
		}
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List ansible role names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		roles, err := root.Roles()
		if err != nil {
			return err
		}
		for _, role := range roles {
			fmt.Println(role)
		}
		return nil
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List markdown docs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		docs, err := root.Docs()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			fmt.Println(doc)
		}
		return nil
	},
}

var readRaw bool

var readCmd = &cobra.Command{
	Use:   "read [relative-path]",
	Short: "Read a text file from the project (markdown rendered unless --raw)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		content, err := root.ReadText(args[0])
		if err != nil {
			return err
		}
		if !readRaw && strings.HasSuffix(args[0], ".md") {
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err == nil {
				if rendered, err := r.Render(content); err == nil {
					content = rendered
				}
			}
		}
		fmt.Print(content)
		return nil
	},
}

var (
	runInventory string
	runLimit     string
	runTags      []string
	runExtraVars string
	runCheck     bool
	runTimeout   int
)

var runCmd = &cobra.Command{
	Use:   "run [playbook.yml]",
	Short: "Run an ansible playbook under a wall-clock budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		req := &runner.Request{
			Playbook:       args[0],
			Inventory:      runInventory,
			Limit:          runLimit,
			Tags:           runTags,
			ExtraVars:      runExtraVars,
			Check:          runCheck,
			TimeoutSeconds: runTimeout,
		}
		r := runner.New(root, runner.ExecSpawner{}, stderrLogger())
		result, err := r.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))

		if result.TimedOut {
			return fmt.Errorf("playbook timed out")
		}
		if result.ExitCode != nil && *result.ExitCode != 0 {
			return fmt.Errorf("ansible-playbook exited with code %d", *result.ExitCode)
		}
		return nil
	},
}

var (
	varsLab            string
	varsLabCloud       string
	varsClusterType    string
	varsOCPBuild       string
	varsOCPVersion     string
	varsPublicVLAN     bool
	varsSNOLabDHCP     bool
	varsSSHPrivateKey  string
	varsSSHPublicKey   string
	varsSNODisk        string
	varsCPDisk         string
	varsWorkerDisk     string
	varsWorkerCount    int
	varsPullSecretPath string
	varsExtra          string
)

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Cluster vars file operations",
}

var varsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Synthesize ansible/vars/all.yml from typed fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		spec := &vars.Spec{
			Lab:                     varsLab,
			LabCloud:                varsLabCloud,
			ClusterType:             vars.ClusterType(varsClusterType),
			OCPBuild:                varsOCPBuild,
			OCPVersion:              varsOCPVersion,
			PublicVLAN:              varsPublicVLAN,
			SNOUseLabDHCP:           varsSNOLabDHCP,
			SSHPrivateKeyFile:       varsSSHPrivateKey,
			SSHPublicKeyFile:        varsSSHPublicKey,
			SNOInstallDisk:          varsSNODisk,
			ControlPlaneInstallDisk: varsCPDisk,
			WorkerInstallDisk:       varsWorkerDisk,
			PullSecretPath:          varsPullSecretPath,
		}
		if cmd.Flags().Changed("worker-node-count") {
			spec.WorkerNodeCount = &varsWorkerCount
		}
		if varsExtra != "" {
			if err := json.Unmarshal([]byte(varsExtra), &spec.ExtraVars); err != nil {
				return fmt.Errorf("--extra-vars must be a JSON object: %w", err)
			}
		}
		written, err := vars.Synthesize(root, spec)
		if err != nil {
			return err
		}
		fmt.Println(written)
		return nil
	},
}

var schemaType string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export JSON Schema to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		switch schemaType {
		case "cluster-vars":
			data, err = vars.GenerateJSONSchema()
		case "request":
			data, err = runner.GenerateJSONSchema()
		default:
			return fmt.Errorf("unknown schema type %q, use 'cluster-vars' or 'request'", schemaType)
		}
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse playbooks and docs in a TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := openRoot()
		if err != nil {
			return err
		}
		m, err := tui.NewModel(root)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jetlag %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "jetlag project directory (default $JETLAG_DIR or ../jetlag)")

	readCmd.Flags().BoolVar(&readRaw, "raw", false, "print the file without markdown rendering")

	runCmd.Flags().StringVarP(&runInventory, "inventory", "i", "", "inventory path relative to the project root")
	runCmd.Flags().StringVar(&runLimit, "limit", "", "ansible --limit pattern")
	runCmd.Flags().StringArrayVar(&runTags, "tags", nil, "tag to pass with --tags (repeatable, order preserved)")
	runCmd.Flags().StringVarP(&runExtraVars, "extra-vars", "e", "", "JSON object passed verbatim with -e")
	runCmd.Flags().BoolVar(&runCheck, "check", false, "run with --check (dry run)")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "wall-clock budget in seconds (default 2h)")

	varsCreateCmd.Flags().StringVar(&varsLab, "lab", "", "lab name, e.g. scalelab")
	varsCreateCmd.Flags().StringVar(&varsLabCloud, "lab-cloud", "", "lab cloud allocation, e.g. cloud99")
	varsCreateCmd.Flags().StringVar(&varsClusterType, "cluster-type", "", "sno, mno, or vmno")
	varsCreateCmd.Flags().StringVar(&varsOCPBuild, "ocp-build", "", "OCP build stream, e.g. ga")
	varsCreateCmd.Flags().StringVar(&varsOCPVersion, "ocp-version", "", "OCP version, e.g. latest-4.16")
	varsCreateCmd.Flags().BoolVar(&varsPublicVLAN, "public-vlan", false, "deploy on the public VLAN")
	varsCreateCmd.Flags().BoolVar(&varsSNOLabDHCP, "sno-use-lab-dhcp", false, "use lab DHCP addressing for SNO")
	varsCreateCmd.Flags().StringVar(&varsSSHPrivateKey, "ssh-private-key", "", "private key path (default ~/.ssh/id_rsa)")
	varsCreateCmd.Flags().StringVar(&varsSSHPublicKey, "ssh-public-key", "", "public key path (default ~/.ssh/id_rsa.pub)")
	varsCreateCmd.Flags().StringVar(&varsSNODisk, "sno-install-disk", "", "install disk for single-node clusters")
	varsCreateCmd.Flags().StringVar(&varsCPDisk, "control-plane-install-disk", "", "install disk for multi-node control plane")
	varsCreateCmd.Flags().StringVar(&varsWorkerDisk, "worker-install-disk", "", "install disk for multi-node workers")
	varsCreateCmd.Flags().IntVar(&varsWorkerCount, "worker-node-count", 0, "worker count for multi-node clusters")
	varsCreateCmd.Flags().StringVar(&varsPullSecretPath, "pull-secret-path", "", "relative path the pull_secret lookup points at (default ../pull_secret.txt)")
	varsCreateCmd.Flags().StringVar(&varsExtra, "extra-vars", "", "JSON object of overrides merged last")
	varsCmd.AddCommand(varsCreateCmd)

	schemaExportCmd.Flags().StringVar(&schemaType, "type", "cluster-vars", "schema type: cluster-vars or request")
	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(playbooksCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)
}
