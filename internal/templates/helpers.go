// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package templates

import (
	"fmt"
	"html/template"
	"time"

	"github.com/roblesbraun/braunstudio/internal/markdown"
	"github.com/roblesbraun/braunstudio/internal/sections"
)

// DateLayout is the storage format of wedding dates.
const DateLayout = "2006-01-02"

// FormatDate renders a stored yyyy-MM-dd date for display. Invalid or empty
// input yields "".
func FormatDate(raw string) string {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return ""
	}
	return d.Format("January 2, 2006")
}

// Money formats an amount in cents as dollars, e.g. 1234 -> "$12.34".
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Countdown is the state of the days-until-the-wedding counter.
type Countdown struct {
	Show  bool // false when the date is missing, invalid or past
	Today bool
	Days  int
}

// CountdownFor compares the wedding date against now's calendar day.
func CountdownFor(raw string, now time.Time) Countdown {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Countdown{}
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return Countdown{}
	case days == 0:
		return Countdown{Show: true, Today: true}
	}
	return Countdown{Show: true, Days: days}
}

// FuncMap returns the helpers shared by the built-in templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown":  markdown.Safe,
		"money":     Money,
		"countdown": CountdownFor,
		// firstImages caps a gallery at n photos.
		"firstImages": func(images []sections.Image, n int) []sections.Image {
			if len(images) > n {
				return images[:n]
			}
			return images
		},
		"add": func(a, b int) int { return a + b },
	}
}
