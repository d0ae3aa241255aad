package catalog

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements Provider for YAML catalog files
type YAMLProvider struct {
	filename string
	catalog  *Catalog
}

// NewYAMLProvider creates a new YAML catalog provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// Load loads the complete catalog from a YAML file
func (y *YAMLProvider) Load() (*Catalog, error) {
	catFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary structs with YAML tags
	var yamlCatalog struct {
		Systems []SystemYAML `yaml:"systems"`
	}

	err = yaml.Unmarshal(catFile, &yamlCatalog)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	systems := make([]System, len(yamlCatalog.Systems))
	for i, s := range yamlCatalog.Systems {
		systems[i] = System{
			Type:           s.Type,
			LampCount:      s.LampCount,
			LampPowerWatts: s.LampPowerWatts,
			Limits: Ranges{
				Flow: Range{
					Min:  s.Limits.Flow.Min,
					Max:  s.Limits.Flow.Max,
					Unit: s.Limits.Flow.Unit,
				},
				UVT: Range{
					Min:  s.Limits.UVT.Min,
					Max:  s.Limits.UVT.Max,
					Unit: s.Limits.UVT.Unit,
				},
			},
		}
	}

	catalog, err := New(systems)
	if err != nil {
		return nil, err
	}

	y.catalog = catalog
	return catalog, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the catalog format
type SystemYAML struct {
	Type           string     `yaml:"system_type"`
	LampCount      int        `yaml:"lamp_count"`
	LampPowerWatts float64    `yaml:"lamp_power_watts"`
	Limits         RangesYAML `yaml:"operational_limits"`
}

type RangesYAML struct {
	Flow RangeYAML `yaml:"flow"`
	UVT  RangeYAML `yaml:"uvt"`
}

type RangeYAML struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Unit string  `yaml:"unit"`
}
