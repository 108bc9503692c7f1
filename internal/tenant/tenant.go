// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tenant maps the request Host to a routing context. Wedding
// subdomains ({slug}.{base}) are rewritten onto the /w/{slug} routes so the
// rest of the router never looks at the host again.
package tenant

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a request host.
type Kind int

const (
	Root     Kind = iota // base domain or www
	AdminApp             // app.{base}
	Tenant               // {slug}.{base}
	LocalDev             // local hosts and anything outside the base domain
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case AdminApp:
		return "app"
	case Tenant:
		return "tenant"
	case LocalDev:
		return "local"
	}
	return "unknown"
}

// Route is the classification result. Slug is set only for Tenant.
type Route struct {
	Kind Kind
	Slug string
}

const appLabel = "app"

// Resolver classifies hosts against a base domain.
type Resolver struct {
	base  string
	local map[string]bool
}

// NewResolver creates a Resolver for baseDomain. localHosts are always
// classified as LocalDev.
func NewResolver(baseDomain string, localHosts []string) *Resolver {
	local := make(map[string]bool, len(localHosts))
	for _, h := range localHosts {
		local[h] = true
	}
	return &Resolver{base: baseDomain, local: local}
}

// Classify strips any port from host and classifies it. Matching is exact:
// no case folding, and only the base domain itself or a host ending in
// "."+base belongs to the platform.
func (rv *Resolver) Classify(host string) Route {
	host = stripPort(host)

	if rv.local[host] {
		return Route{Kind: LocalDev}
	}
	if host == rv.base {
		return Route{Kind: Root}
	}
	label, ok := strings.CutSuffix(host, "."+rv.base)
	if !ok {
		return Route{Kind: LocalDev}
	}

	switch label {
	case "", "www":
		return Route{Kind: Root}
	case appLabel:
		return Route{Kind: AdminApp}
	}
	return Route{Kind: Tenant, Slug: label}
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// TenantPath returns the internal path a tenant request is served from.
func TenantPath(slug, path string) string {
	if path == "" || path == "/" {
		return "/w/" + slug
	}
	return "/w/" + slug + path
}

// SiteURL returns the public address of a wedding on its own subdomain.
func (rv *Resolver) SiteURL(slug string) string {
	return "https://" + slug + "." + rv.base
}

type contextKey string

const routeKey contextKey = "tenant_route"

// RouteFromCtx returns the Route stored by Middleware. Requests that never
// passed through it report LocalDev.
func RouteFromCtx(ctx context.Context) Route {
	if r, ok := ctx.Value(routeKey).(Route); ok {
		return r
	}
	return Route{Kind: LocalDev}
}

// WithRoute stores a Route in ctx.
func WithRoute(ctx context.Context, r Route) context.Context {
	return context.WithValue(ctx, routeKey, r)
}

// Middleware classifies every request and rewrites tenant requests onto the
// /w/{slug} routes, keeping the query string. It must run before routing.
func (rv *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := rv.Classify(r.Host)
		ctx := WithRoute(r.Context(), route)

		switch route.Kind {
		case Tenant:
			r = r.Clone(ctx)
			r.URL.Path = TenantPath(route.Slug, r.URL.Path)
			r.URL.RawPath = ""
		case AdminApp:
			r = r.WithContext(ctx)
			if r.URL.Path == "/" {
				http.Redirect(w, r, "/app", http.StatusFound)
				return
			}
		default:
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
