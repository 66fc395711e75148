package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

func ReadYAML[T any](path string) (T, error) {
	var out T

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading yaml file: %w", err)
	}

	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing yaml file: %w", err)
	}

	return out, nil
}

func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing yaml file: %w", err)
	}

	return nil
}
