package vars

import (
	"encoding/json"
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError is one error from the validation pipeline.
type ValidationError struct {
	Phase   string `json:"phase"` // semantic, domain
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s at %s", e.Phase, e.Message, e.Path)
	}
	return fmt.Sprintf("[%s] %s", e.Phase, e.Message)
}

func errorf(phase, path, msg string, args ...any) *ValidationError {
	return &ValidationError{Phase: phase, Path: path, Message: fmt.Sprintf(msg, args...)}
}

// InvalidSpecError aggregates the validation failures for one spec.
type InvalidSpecError struct {
	Errs []*ValidationError
}

func (e *InvalidSpecError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, v := range e.Errs {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate runs the 2-phase pipeline on a spec: semantic (the
// generated JSON schema, compiled and applied to the spec's JSON
// form) then domain (hand-coded rules). All failures are detected
// before any file is written.
func Validate(spec *Spec) []*ValidationError {
	errs := validateSemantic(spec)
	errs = append(errs, validateDomain(spec)...)
	return errs
}

func validateSemantic(spec *Spec) []*ValidationError {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "generate schema: %v", err)}
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{errorf("semantic", "", "unmarshal schema: %v", err)}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("cluster-vars-v0.json", schemaDoc); err != nil {
		return []*ValidationError{errorf("semantic", "", "add schema resource: %v", err)}
	}
	sch, err := c.Compile("cluster-vars-v0.json")
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "compile schema: %v", err)}
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "marshal spec: %v", err)}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{errorf("semantic", "", "unmarshal spec: %v", err)}
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, errorf("semantic",
					strings.Join(cause.InstanceLocation, "/"),
					"%v", cause.ErrorKind))
			}
		} else {
			errs = append(errs, errorf("semantic", "", "%v", err))
		}
		return errs
	}
	return nil
}

// validateDomain checks the rules the schema cannot express.
func validateDomain(spec *Spec) []*ValidationError {
	var errs []*ValidationError

	required := map[string]string{
		"lab":         spec.Lab,
		"lab_cloud":   spec.LabCloud,
		"ocp_build":   spec.OCPBuild,
		"ocp_version": spec.OCPVersion,
	}
	for _, field := range []string{"lab", "lab_cloud", "ocp_build", "ocp_version"} {
		if required[field] == "" {
			errs = append(errs, errorf("domain", field, "%s is required", field))
		}
	}

	if !spec.ClusterType.Recognized() {
		errs = append(errs, errorf("domain", "cluster_type",
			"unrecognized cluster_type %q: must be sno, mno, or vmno", spec.ClusterType))
	}
	if spec.WorkerNodeCount != nil && *spec.WorkerNodeCount < 0 {
		errs = append(errs, errorf("domain", "worker_node_count", "must not be negative"))
	}
	return errs
}

// flattenValidationErrors recursively collects all leaf causes.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
