package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/martlens/internal/compiler"
	"github.com/roach88/martlens/internal/measure"
	"github.com/roach88/martlens/internal/store"
)

// LoadCatalogFile loads a measure catalog from a CUE or YAML file,
// dispatched by extension. An empty path means the standard six KPIs.
func LoadCatalogFile(path string) (measure.Catalog, error) {
	if path == "" {
		return measure.DefaultCatalog(), nil
	}

	switch filepath.Ext(path) {
	case ".cue":
		return compiler.LoadCatalog(path)
	case ".yaml", ".yml":
		return measure.LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .cue, .yaml, or .yml)", filepath.Ext(path))
	}
}

// openWarehouse opens the SQLite warehouse behind --db for reading.
// A missing file is a command error - report and explore commands never
// create an empty warehouse by accident.
func openWarehouse(opts *RootOptions) (*store.Store, error) {
	if _, err := os.Stat(opts.DBPath); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("warehouse not found at %s", opts.DBPath), err)
	}
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open warehouse", err)
	}
	return s, nil
}
