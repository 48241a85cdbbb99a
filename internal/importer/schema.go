package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateSchema is the top-level structure of a template import file.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
type TemplateSchema struct {
	Items []ItemImport `json:"items" yaml:"items"`
}

// ItemImport defines one template item. Dependencies name other items in
// the same file by ref.
type ItemImport struct {
	Ref          string      `json:"ref" yaml:"ref"`
	Name         string      `json:"name" yaml:"name"`
	DurationDays int         `json:"duration_days" yaml:"duration_days"`
	SortOrder    *int        `json:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	Category     *string     `json:"category,omitempty" yaml:"category,omitempty"`
	Gate         *GateImport `json:"gate,omitempty" yaml:"gate,omitempty"`
	DependsOn    []string    `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// GateImport marks an item as a critical gate.
type GateImport struct {
	Name      *string `json:"name,omitempty" yaml:"name,omitempty"`
	Scope     string  `json:"scope,omitempty" yaml:"scope,omitempty"`
	BlockMode string  `json:"block_mode,omitempty" yaml:"block_mode,omitempty"`
}

// LoadTemplateSchema reads and parses a template import file.
func LoadTemplateSchema(path string) (*TemplateSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplateSchema(data, filepath.Ext(path))
}

// ParseTemplateSchema decodes data using the format implied by ext.
func ParseTemplateSchema(data []byte, ext string) (*TemplateSchema, error) {
	var schema TemplateSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
