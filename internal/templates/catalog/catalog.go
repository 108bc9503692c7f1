// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog registers the built-in templates. Metadata comes from the
// embedded catalog.yaml; loaders are bound here by id and version.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roblesbraun/braunstudio/internal/registry"
	classicv1 "github.com/roblesbraun/braunstudio/internal/templates/classic/v1"
	classicv2 "github.com/roblesbraun/braunstudio/internal/templates/classic/v2"
)

//go:embed catalog.yaml
var manifest []byte

// loaders binds every released version to its implementation.
var loaders = map[string]map[string]registry.Loader{
	classicv1.ID: {
		classicv1.Version: classicv1.Load,
		classicv2.Version: classicv2.Load,
	},
}

type file struct {
	Templates []registry.Metadata `yaml:"templates"`
}

// Parse decodes a catalog manifest.
func Parse(data []byte) ([]registry.Metadata, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return f.Templates, nil
}

// Register adds every catalog template to r.
func Register(r *registry.Registry) error {
	metas, err := Parse(manifest)
	if err != nil {
		return err
	}
	for _, m := range metas {
		bound, ok := loaders[m.ID]
		if !ok {
			return fmt.Errorf("catalog template %q has no implementation", m.ID)
		}
		if err := r.Register(m, bound); err != nil {
			return fmt.Errorf("register %q: %w", m.ID, err)
		}
	}
	return nil
}

// New returns a registry holding the built-in templates.
func New() (*registry.Registry, error) {
	r := registry.New()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
