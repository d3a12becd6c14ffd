package catalog

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads a catalog from a YAML file.
// A missing file is not an error: the built-in catalog is returned instead.
//
// Example:
//
//	interests:
//	  - id: food
//	    label: Food
//	destinations:
//	  - name: Goa
//	    region: West India
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Unknown keys are rejected so typos surface early.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var c Catalog
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	out := c.withDefaults()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
