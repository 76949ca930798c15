//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/akrzos/jetlag-mcp/pkg/runner"
	"github.com/akrzos/jetlag-mcp/pkg/vars"
)

func main() {
	data, err := vars.GenerateJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/cluster-vars-v0.json", data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/cluster-vars-v0.json")

	reqData, err := runner.GenerateJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating request schema: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/run-request-v0.json", reqData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/run-request-v0.json")
}
