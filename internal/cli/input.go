package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"econcal/internal/files"
)

// readItems loads a JSON file holding either a list of items or an object
// with the list under key. A path of "-" reads stdin.
func (o *options) readItems(path, key string, stdin io.Reader) ([]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		if err := o.files.ValidateFile(path); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}

	switch v := body.(type) {
	case []any:
		return v, nil
	case map[string]any:
		list, ok := v[key].([]any)
		if !ok {
			return nil, fmt.Errorf("input %s: %q must be a list", path, key)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("input %s: expected a list or an object with %q", path, key)
	}
}

// readTemplate reads path when it is set and otherwise the configured
// template, materializing it from the fallback if needed.
func (o *options) readTemplate(path string, store *files.TemplateStore) ([]byte, error) {
	if path != "" {
		if err := o.files.ValidateDocxFile(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		return data, nil
	}
	return store.Read()
}

// outputPath resolves where a generated file goes. An empty output or an
// existing directory receives the default name.
func outputPath(output, name string) string {
	if output == "" {
		return name
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}

func (o *options) writeOutput(path string, data []byte) error {
	if err := o.checkOutputDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// checkOutputDir makes sure the directory that will hold path exists and is writable.
func (o *options) checkOutputDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return o.files.ValidateOutputDirectory(dir)
}
