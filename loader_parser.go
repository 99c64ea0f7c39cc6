package payform

import (
	"fmt"
	"os"

	"github.com/goliatone/go-payform/pkg/pricing"
	"github.com/goliatone/go-payform/pkg/schema"
)

// LoadPricingTable reads a YAML rate table from path. An empty path yields the
// built-in table.
func LoadPricingTable(path string) (*pricing.Table, error) {
	if path == "" {
		return pricing.DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("payform: open pricing table: %w", err)
	}
	defer f.Close()
	table, err := pricing.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("payform: %s: %w", path, err)
	}
	return table, nil
}

// LoadSchemas returns the built-in channel schemas with the overlays found in
// dir applied. An empty dir yields the built-ins unchanged.
func LoadSchemas(dir string) (schema.Source, error) {
	if dir == "" {
		return schema.Builtins, nil
	}
	store, err := schema.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("payform: %w", err)
	}
	registry, err := schema.NewRegistry(schema.WithOverlay(store))
	if err != nil {
		return nil, fmt.Errorf("payform: %w", err)
	}
	return registry, nil
}
