// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package templates defines the contract every wedding page template
// implements, the props it receives, and the shared helpers templates use
// to render their sections independently of one another.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/nav"
	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// Template is one immutable template version.
type Template interface {
	// Render writes the page body (everything inside the layout shell).
	Render(ctx context.Context, w io.Writer, p Props) error
	// Defaults returns the template's baseline palette for mode. Wedding
	// overrides are layered on top by the caller.
	Defaults(mode theme.Mode) theme.Palette
}

// Wedding is the subset of a wedding a template may display.
type Wedding struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Date         string // human readable, e.g. "June 14, 2026"
	RawDate      string // yyyy-MM-dd as stored
	LogoLightURL string
	LogoDarkURL  string
}

// SectionData carries the enabled sections and their decoded content.
type SectionData struct {
	Enabled []sections.Key
	Content sections.Contents
}

// Actions holds the form endpoints of the interactive sections. They are
// built by the engine only, so preview pages always point at preview routes.
type Actions struct {
	RSVPCode string
	RSVP     string
	Gifts    string // prefix; see Contribute
}

// Contribute returns the endpoint for contributing to a gift.
func (a Actions) Contribute(giftID string) string {
	return a.Gifts + "/" + giftID + "/contribute"
}

// Notice is the outcome of a form post, shown next to the section it
// belongs to.
type Notice struct {
	Section  sections.Key
	Kind     string // "success", "error", "info"
	Message  string
	Phone    string // echoed into the RSVP form after a code was sent
	CodeSent bool
}

// For reports whether the notice belongs to section k.
func (n Notice) For(k sections.Key) bool {
	return n.Message != "" && n.Section == k
}

// Props is everything a template receives for one render.
type Props struct {
	Wedding  Wedding
	Mode     theme.Mode
	Palette  theme.Palette // active overrides layered over Defaults
	Sections SectionData
	Preview  bool
	Actions  Actions
	Notice   Notice
	Now      time.Time
}

// Section is the value a single section template executes with.
type Section struct {
	Props
	Key     sections.Key
	Heading string
}

// NewSection builds the view for section k. Heading falls back to the
// static label (or the wedding name for the hero) when content has none.
func NewSection(p Props, k sections.Key) Section {
	heading := p.Sections.Content.Title(k)
	if heading == "" {
		if k == sections.KeyHero {
			heading = p.Wedding.Name
		} else {
			heading = nav.DefaultLabel(k)
		}
	}
	return Section{Props: p, Key: k, Heading: heading}
}

// SectionFunc renders one section.
type SectionFunc func(w io.Writer, s Section) error

// RenderSections renders every enabled key of order through fn. Disabled
// keys produce nothing. Each section is rendered into its own buffer; one
// that errors or panics is logged and left out while the others render.
func RenderSections(ctx context.Context, w io.Writer, order []sections.Key, p Props, fn SectionFunc) error {
	for _, k := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sections.Contains(p.Sections.Enabled, k) {
			continue
		}

		var buf bytes.Buffer
		if err := renderOne(&buf, NewSection(p, k), fn); err != nil {
			slog.Warn("section render failed, skipping",
				"wedding", p.Wedding.Slug, "section", k, "error", err)
			continue
		}
		if _, err := buf.WriteTo(w); err != nil {
			return fmt.Errorf("write section %s: %w", k, err)
		}
	}
	return nil
}

func renderOne(w io.Writer, s Section, fn SectionFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(w, s)
}
