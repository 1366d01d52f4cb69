// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// SchemaFile is the name of the data dictionary written next to the tables.
const SchemaFile = "schema.yaml"

// SchemaTable describes one table in schema.yaml.
type SchemaTable struct {
	Name        string   `yaml:"name"`
	File        string   `yaml:"file"`
	Cardinality string   `yaml:"rows_per_article"`
	Columns     []string `yaml:"columns"`
}

// Schema is the content of schema.yaml.
type Schema struct {
	Tables []SchemaTable `yaml:"tables"`
}

// SchemaOf describes writers in order.
func SchemaOf(writers []Writer) Schema {
	var s Schema
	for _, w := range writers {
		spec := w.Spec()
		s.Tables = append(s.Tables, SchemaTable{
			Name:        spec.Name,
			File:        filepath.Base(w.Path()),
			Cardinality: spec.Cardinality.String(),
			Columns:     spec.Fields,
		})
	}
	return s
}

// WriteSchema writes schema.yaml for writers into dir.
func WriteSchema(fs afero.Fs, dir string, writers []Writer) error {
	data, err := yaml.Marshal(SchemaOf(writers))
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	path := filepath.Join(dir, SchemaFile)
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
