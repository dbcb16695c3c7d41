package catalogfile

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Default parses the embedded balance tables
func Default() (*catalog.Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for tests and tools; it panics on a broken embedded file
func MustDefault() *catalog.Catalog {
	cat, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return cat
}

// Load reads balance tables from path, or the embedded defaults when path is empty
func Load(path string) (*catalog.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) (*catalog.Catalog, error) {
	var cat catalog.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &cat, nil
}
