// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package v1

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/templates"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

func testProps(enabled []string, content string) templates.Props {
	var raw map[string]json.RawMessage
	if content != "" {
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			panic(err)
		}
	}
	b := sections.Decode(enabled, raw)
	return templates.Props{
		Wedding:  templates.Wedding{Name: "Sarah & John", Slug: "sarah-and-john", Date: "June 14, 2026", RawDate: "2026-06-14"},
		Mode:     theme.Light,
		Sections: templates.SectionData{Enabled: b.Enabled, Content: b.Content},
		Actions:  templates.Actions{RSVPCode: "/rsvp/code", RSVP: "/rsvp", Gifts: "/gifts"},
		Now:      time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func render(t *testing.T, p templates.Props) string {
	t.Helper()
	tmpl, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	var out strings.Builder
	if err := tmpl.Render(context.Background(), &out, p); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return out.String()
}

func TestRender_CanonicalOrder(t *testing.T) {
	p := testProps([]string{"rsvp", "location", "hero"}, `{"location":{"venueName":"Villa Rosa","address":"1 Vine St"}}`)
	out := render(t, p)

	hero := strings.Index(out, `id="hero"`)
	loc := strings.Index(out, `id="location"`)
	rsvp := strings.Index(out, `id="rsvp"`)
	if hero < 0 || loc < 0 || rsvp < 0 {
		t.Fatalf("missing sections in output: %s", out)
	}
	if !(hero < loc && loc < rsvp) {
		t.Errorf("sections not in canonical order: hero=%d location=%d rsvp=%d", hero, loc, rsvp)
	}
	if strings.Contains(out, `id="photos"`) {
		t.Error("disabled section rendered")
	}
	if !strings.Contains(out, "Villa Rosa") {
		t.Error("location content missing")
	}
}

func TestRender_EmptyContentRendersShell(t *testing.T) {
	out := render(t, testProps([]string{"hero", "lodging", "dressCode"}, ""))
	for _, want := range []string{"Sarah &amp; John", ">Lodging<", ">Dress Code<", "June 14, 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_CountdownIgnored(t *testing.T) {
	out := render(t, testProps([]string{"hero", "countdown"}, ""))
	if strings.Contains(out, `id="countdown"`) {
		t.Error("v1 should not render the countdown section")
	}
}

func TestRender_PhotosCappedAtThree(t *testing.T) {
	content := `{"photos":{"images":[{"url":"https://x/1.jpg"},{"url":"https://x/2.jpg"},{"url":"https://x/3.jpg"},{"url":"https://x/4.jpg"}]}}`
	out := render(t, testProps([]string{"photos"}, content))
	if n := strings.Count(out, "<img"); n != 3 {
		t.Errorf("rendered %d images, want 3", n)
	}
	if !strings.Contains(out, `alt="Photo 1"`) {
		t.Error("missing fallback alt text")
	}
}

func TestRender_GiftModes(t *testing.T) {
	gifts := `{"gifts":{"mode":"gifts","items":[{"id":"g1","name":"Espresso machine","priceInCents":24999}]}}`
	out := render(t, testProps([]string{"gifts"}, gifts))
	if !strings.Contains(out, "$249.99") {
		t.Error("price not formatted")
	}
	if !strings.Contains(out, `action="/gifts/g1/contribute"`) {
		t.Error("contribute action missing")
	}

	wishlist := `{"gifts":{"mode":"wishlist","wishlistUrl":"https://registry.example.com/sj"}}`
	out = render(t, testProps([]string{"gifts"}, wishlist))
	if !strings.Contains(out, "https://registry.example.com/sj") {
		t.Error("wishlist link missing")
	}
	if strings.Contains(out, "contribute") {
		t.Error("wishlist mode should not render contribute forms")
	}
}

func TestRender_RSVPFlow(t *testing.T) {
	p := testProps([]string{"rsvp"}, `{"rsvp":{"deadline":"May 1"}}`)
	out := render(t, p)
	if !strings.Contains(out, `action="/rsvp/code"`) || !strings.Contains(out, "Please respond by May 1") {
		t.Errorf("initial RSVP form wrong: %s", out)
	}

	p.Notice = templates.Notice{Section: sections.KeyRSVP, Kind: "info", Message: "Code sent", Phone: "+15550001", CodeSent: true}
	out = render(t, p)
	if !strings.Contains(out, `action="/rsvp"`) || !strings.Contains(out, `value="&#43;15550001"`) {
		t.Errorf("code step form wrong: %s", out)
	}
	if !strings.Contains(out, "Code sent") {
		t.Error("notice missing")
	}
}

func TestRender_MarkdownIsSafe(t *testing.T) {
	content := `{"dressCode":{"description":"**Black tie** <script>alert(1)</script>"}}`
	out := render(t, testProps([]string{"dressCode"}, content))
	if !strings.Contains(out, "<strong>Black tie</strong>") {
		t.Error("markdown not rendered")
	}
	if strings.Contains(out, "<script>") {
		t.Error("raw script leaked into output")
	}
}

func TestDefaults_Copy(t *testing.T) {
	tmpl, err := Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	p := tmpl.Defaults(theme.Light)
	if len(p) != len(theme.Tokens) {
		t.Errorf("light defaults have %d tokens, want %d", len(p), len(theme.Tokens))
	}
	p["primary"] = "changed"
	if tmpl.Defaults(theme.Light)["primary"] == "changed" {
		t.Error("Defaults returned a shared map")
	}
}
