package measure

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML document shape for a measure catalog:
//
//	measures:
//	  - name: Total Sales
//	    source: fact_sales
//	    aggregation: sum
//	    column: sales_amount
type catalogFile struct {
	Measures []Definition `yaml:"measures"`
}

// LoadYAML reads a measure catalog from a YAML file.
// Declaration order in the file is preserved - it becomes report row order.
//
// Only structural checks happen here (non-empty, names present, known
// aggregation keyword). Column/relation binding is checked by the evaluator
// against the live warehouse schema, per measure, at report time.
func LoadYAML(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML measure catalog from bytes.
func ParseYAML(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(file.Measures) == 0 {
		return nil, fmt.Errorf("parse catalog: no measures declared")
	}

	for i, def := range file.Measures {
		if def.Name == "" {
			return nil, fmt.Errorf("parse catalog: measure %d has no name", i)
		}
		if def.Source == "" {
			return nil, fmt.Errorf("parse catalog: measure %q has no source relation", def.Name)
		}
		if !def.Aggregation.Known() {
			return nil, fmt.Errorf("parse catalog: measure %q has unknown aggregation %q", def.Name, def.Aggregation)
		}
	}

	return Catalog(file.Measures), nil
}
