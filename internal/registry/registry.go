// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package registry maps (template id, version) pairs to template
// implementations. Versions are loaded lazily on first use and memoised for
// the life of the process; a released version can never be replaced.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/templates"
)

// Loader produces a template version. It runs at most once successfully
// per version; a failed load is retried by the next Resolve.
type Loader func(ctx context.Context) (templates.Template, error)

// Metadata describes a template for the admin UI.
type Metadata struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Thumbnail   string   `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Versions    []string `yaml:"versions" json:"versions"`
}

// ErrNotRenderable is matched by every Resolve failure.
var ErrNotRenderable = errors.New("template not renderable")

// ErrVersionExists is returned when registering an existing (id, version).
var ErrVersionExists = errors.New("template version already registered")

// TemplateNotFoundError reports an unknown template id.
type TemplateNotFoundError struct {
	ID string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.ID)
}

func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrNotRenderable }

// VersionNotFoundError reports a known template without the version.
type VersionNotFoundError struct {
	ID      string
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("template %q has no version %q", e.ID, e.Version)
}

func (e *VersionNotFoundError) Is(target error) bool { return target == ErrNotRenderable }

// LoadError wraps a loader failure.
type LoadError struct {
	ID      string
	Version string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load template %s@%s: %v", e.ID, e.Version, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrNotRenderable }

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	meta    map[string]*Metadata
	loaders map[cacheKey]Loader

	cache *templateCache
	group singleflight.Group
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		meta:    make(map[string]*Metadata),
		loaders: make(map[cacheKey]Loader),
		cache:   newTemplateCache(),
	}
}

// Register declares a template and binds a loader to each listed version.
// meta.Versions must match the keys of loaders exactly.
func (r *Registry) Register(meta Metadata, loaders map[string]Loader) error {
	if meta.ID == "" {
		return errors.New("template id is required")
	}
	declared := make(map[string]bool, len(meta.Versions))
	for _, v := range meta.Versions {
		if declared[v] {
			return fmt.Errorf("template %q: version %q declared twice", meta.ID, v)
		}
		declared[v] = true
		if loaders[v] == nil {
			return fmt.Errorf("template %q: no loader for version %q", meta.ID, v)
		}
	}
	for v := range loaders {
		if !declared[v] {
			return fmt.Errorf("template %q: loader bound to undeclared version %q", meta.ID, v)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meta[meta.ID]; ok {
		return fmt.Errorf("template %q: %w", meta.ID, ErrVersionExists)
	}
	m := meta
	m.Versions = append([]string(nil), meta.Versions...)
	r.meta[meta.ID] = &m
	for v, l := range loaders {
		r.loaders[cacheKey{meta.ID, v}] = l
	}
	return nil
}

// Release adds a new version to a registered template. Existing versions
// cannot be replaced.
func (r *Registry) Release(id, version string, loader Loader) error {
	if loader == nil {
		return errors.New("loader is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meta[id]
	if !ok {
		return &TemplateNotFoundError{ID: id}
	}
	k := cacheKey{id, version}
	if _, ok := r.loaders[k]; ok {
		return fmt.Errorf("%s: %w", k, ErrVersionExists)
	}
	r.loaders[k] = loader
	m.Versions = append(m.Versions, version)
	return nil
}

// Resolve returns the template for (id, version), loading it on first use.
// Concurrent first calls share a single load.
func (r *Registry) Resolve(ctx context.Context, id, version string) (templates.Template, error) {
	ctx, span := metrics.Tracer.Start(ctx, "registry.Resolve", trace.WithAttributes(
		attribute.String("template.id", id),
		attribute.String("template.version", version),
	))
	defer span.End()

	k := cacheKey{id, version}
	if t := r.cache.get(k); t != nil {
		return t, nil
	}

	r.mu.RLock()
	_, known := r.meta[id]
	loader := r.loaders[k]
	r.mu.RUnlock()

	if !known {
		span.SetStatus(codes.Error, "template not found")
		return nil, &TemplateNotFoundError{ID: id}
	}
	if loader == nil {
		span.SetStatus(codes.Error, "version not found")
		return nil, &VersionNotFoundError{ID: id, Version: version}
	}

	v, err, _ := r.group.Do(k.String(), func() (any, error) {
		if t := r.cache.get(k); t != nil {
			return t, nil
		}
		t, err := load(ctx, loader)
		if err == nil && t == nil {
			err = errors.New("loader returned no template")
		}
		if err != nil {
			metrics.TemplateLoads.WithLabelValues(id, version, "error").Inc()
			return nil, err
		}
		metrics.TemplateLoads.WithLabelValues(id, version, "ok").Inc()
		return r.cache.put(k, t), nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, &LoadError{ID: id, Version: version, Err: err}
	}
	return v.(templates.Template), nil
}

// load runs loader, turning a panic into an error.
func load(ctx context.Context, loader Loader) (t templates.Template, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t, err = nil, fmt.Errorf("loader panic: %v", rec)
		}
	}()
	return loader(ctx)
}

// List returns the metadata of every template sorted by id.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metadata, 0, len(r.meta))
	for _, m := range r.meta {
		out = append(out, copyMeta(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Metadata returns the metadata for id.
func (r *Registry) Metadata(id string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meta[id]
	if !ok {
		return Metadata{}, false
	}
	return copyMeta(m), true
}

// IsValid reports whether (id, version) is registered.
func (r *Registry) IsValid(id, version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[cacheKey{id, version}]
	return ok
}

// LatestVersion returns the most recently declared version of id.
func (r *Registry) LatestVersion(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meta[id]
	if !ok || len(m.Versions) == 0 {
		return "", false
	}
	return m.Versions[len(m.Versions)-1], true
}

func copyMeta(m *Metadata) Metadata {
	c := *m
	c.Versions = append([]string(nil), m.Versions...)
	return c
}
