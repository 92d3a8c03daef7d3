package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed tasks.schema.json
var schemaData []byte

var (
	tasksSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal tasks schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("tasks.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add tasks schema resource: %w", err)
			return
		}

		tasksSchema, err = compiler.Compile("tasks.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile tasks schema: %w", err)
		}
	})

	return compileErr
}

// Validate checks YAML task file content against the embedded schema.
func Validate(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON-typed values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert task file: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("convert task file: %w", err)
	}

	if err := tasksSchema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTaskFile, err)
	}

	return nil
}
