// Command schemagen generates the JSON schema for the configuration
// document. It is invoked by go:generate from pkg/config.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/rulectx/rulectx/pkg/config"
)

func main() {
	outFile := flag.String("o", "schema.json", "output file for the generated schema")
	flag.Parse()

	err := run(*outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemagen: %v\n", err)
		os.Exit(1)
	}
}

func run(outFile string) error {
	r := &jsonschema.Reflector{
		DoNotReference: false,
	}

	// Field doc comments become schema descriptions. The generator runs
	// from pkg/config, so the module root is two levels up.
	err := r.AddGoComments("github.com/rulectx/rulectx", "../../")
	if err != nil {
		return fmt.Errorf("read Go comments: %w", err)
	}

	jss := r.Reflect(config.NewConfig())

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	err = os.WriteFile(outFile, append(data, '\n'), 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
