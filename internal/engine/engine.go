// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders public wedding pages. It resolves the wedding's
// template version through the registry, decodes its sections, layers the
// theme over the template defaults and wraps the template body in the page
// shell (head, scoped theme, navbar, preview banner).
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/nav"
	"github.com/roblesbraun/braunstudio/internal/registry"
	"github.com/roblesbraun/braunstudio/internal/templates"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

//go:embed layout.html
var layoutHTML string

var layout = template.Must(template.New("layout").Parse(layoutHTML))

// ErrNotPublished is returned for a public render of a wedding that is not
// live yet.
var ErrNotPublished = errors.New("wedding is not published")

// RenderError reports a failure inside a template body. Registry errors are
// returned as they are.
type RenderError struct {
	TemplateID string
	Version    string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s@%s: %v", e.TemplateID, e.Version, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Resolver looks up template versions. *registry.Registry satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, id, version string) (templates.Template, error)
}

// FileURLer turns a stored object key into a public URL.
type FileURLer interface {
	FileURL(key string) string
}

// Request describes one page render.
type Request struct {
	Wedding *models.Wedding
	Mode    theme.Mode
	Preview bool
	// BasePath prefixes every form action: "" on a tenant host,
	// "/w/{slug}" locally and "/preview/{slug}" for previews.
	BasePath string
	Notice   templates.Notice
}

// Engine renders wedding pages. It is safe for concurrent use.
type Engine struct {
	templates Resolver
	files     FileURLer
	now       func() time.Time
}

// New creates an engine. files may be nil when object storage is not
// configured; logos are then omitted.
func New(resolver Resolver, files FileURLer) *Engine {
	return &Engine{templates: resolver, files: files, now: time.Now}
}

// layoutData is the view model of layout.html.
type layoutData struct {
	Title     string
	Name      string
	Mode      theme.Mode
	OtherMode theme.Mode
	CSSVars   template.CSS
	Preview   bool
	NoIndex   bool
	LogoURL   string
	Nav       []nav.Item
	Body      template.HTML
}

// Render produces the full HTML document for req.
func (e *Engine) Render(ctx context.Context, req Request) ([]byte, error) {
	w := req.Wedding
	ctx, span := metrics.Tracer.Start(ctx, "engine.Render", trace.WithAttributes(
		attribute.String("wedding.slug", w.Slug),
		attribute.String("template.id", w.TemplateID),
		attribute.String("template.version", w.TemplateVersion),
		attribute.Bool("preview", req.Preview),
	))
	defer span.End()
	start := time.Now()

	out, err := e.render(ctx, req)
	outcome := "ok"
	var loadErr *registry.LoadError
	switch {
	case errors.Is(err, ErrNotPublished):
		outcome = "not_published"
	case errors.As(err, &loadErr):
		outcome = "load_error"
	case errors.Is(err, registry.ErrNotRenderable):
		outcome = "not_renderable"
	case err != nil:
		outcome = "error"
	}
	metrics.PageRenders.WithLabelValues(w.TemplateID, w.TemplateVersion, outcome).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	metrics.RenderDuration.WithLabelValues(w.TemplateID).Observe(time.Since(start).Seconds())
	return out, nil
}

func (e *Engine) render(ctx context.Context, req Request) ([]byte, error) {
	w := req.Wedding
	if !req.Preview && w.IsDraft() {
		return nil, ErrNotPublished
	}

	tmpl, err := e.templates.Resolve(ctx, w.TemplateID, w.TemplateVersion)
	if err != nil {
		return nil, err
	}

	bundle := w.Sections()
	palette := theme.ActivePalette(w.Theme, req.Mode).Over(tmpl.Defaults(req.Mode))
	props := templates.Props{
		Wedding:  e.weddingView(w),
		Mode:     req.Mode,
		Palette:  palette,
		Sections: templates.SectionData{Enabled: bundle.Enabled, Content: bundle.Content},
		Preview:  req.Preview,
		Actions:  actionsFor(req.BasePath),
		Notice:   req.Notice,
		Now:      e.now(),
	}

	var (
		items []nav.Item
		body  bytes.Buffer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items = nav.Build(bundle.Enabled, bundle.Content)
		return nil
	})
	g.Go(func() error {
		if err := tmpl.Render(gctx, &body, props); err != nil {
			return &RenderError{TemplateID: w.TemplateID, Version: w.TemplateVersion, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logo := props.Wedding.LogoLightURL
	if req.Mode == theme.Dark {
		logo = props.Wedding.LogoDarkURL
	}
	other := theme.Dark
	if req.Mode == theme.Dark {
		other = theme.Light
	}

	var page bytes.Buffer
	err = layout.Execute(&page, layoutData{
		Title:     w.Name,
		Name:      w.Name,
		Mode:      req.Mode,
		OtherMode: other,
		CSSVars:   template.CSS(palette.CSSVars()),
		Preview:   req.Preview,
		NoIndex:   req.Preview || !w.IsLive(),
		LogoURL:   logo,
		Nav:       items,
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return nil, &RenderError{TemplateID: w.TemplateID, Version: w.TemplateVersion, Err: fmt.Errorf("layout: %w", err)}
	}
	return page.Bytes(), nil
}

func (e *Engine) weddingView(w *models.Wedding) templates.Wedding {
	v := templates.Wedding{
		ID:      w.ID,
		Name:    w.Name,
		Slug:    w.Slug,
		RawDate: w.Date(),
		Date:    templates.FormatDate(w.Date()),
	}
	if e.files != nil {
		if w.LogoLightKey != nil {
			v.LogoLightURL = e.files.FileURL(*w.LogoLightKey)
		}
		if w.LogoDarkKey != nil {
			v.LogoDarkURL = e.files.FileURL(*w.LogoDarkKey)
		}
	}
	return v
}

// actionsFor builds the form endpoints under base.
func actionsFor(base string) templates.Actions {
	return templates.Actions{
		RSVPCode: base + "/rsvp/code",
		RSVP:     base + "/rsvp",
		Gifts:    base + "/gifts",
	}
}
