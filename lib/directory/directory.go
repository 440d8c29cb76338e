// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package directory browses the public profile listing.
//
// The listing is fetched whole and filtered locally: a free-text query
// matches name, category or summary case-insensitively, and a category
// selects exact matches unless it is [AllCategories].
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// Categories are the professional categories a profile can choose.
var Categories = []string{
	"Software Engineer",
	"Frontend Engineer",
	"Backend Engineer",
	"Data Analyst",
	"UI/UX Designer",
	"Project Manager",
}

// Filter selects profiles from the listing. The zero Filter matches
// everything.
type Filter struct {
	Query    string
	Category string
}

// Matches reports whether profile passes the filter.
func (f Filter) Matches(profile marketplace.PublicProfile) bool {
	if f.Category != "" && f.Category != AllCategories && profile.Category != f.Category {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(profile.Name), query) ||
		strings.Contains(strings.ToLower(profile.Category), query) ||
		strings.Contains(strings.ToLower(profile.Summary), query)
}

// Apply returns the profiles that pass the filter, in listing order.
// The result is never nil.
func (f Filter) Apply(profiles []marketplace.PublicProfile) []marketplace.PublicProfile {
	matched := make([]marketplace.PublicProfile, 0, len(profiles))
	for _, profile := range profiles {
		if f.Matches(profile) {
			matched = append(matched, profile)
		}
	}
	return matched
}

// Backend fetches the listing. *marketplace.Client satisfies it.
type Backend interface {
	PublicUsers(ctx context.Context, credential *marketplace.User) ([]marketplace.PublicProfile, error)
}

// Identity supplies the current session record.
type Identity interface {
	Current() *marketplace.User
}

// Directory fetches and filters the listing for the signed-in user.
type Directory struct {
	backend Backend
	session Identity
}

// New returns a Directory.
func New(backend Backend, identity Identity) (*Directory, error) {
	if backend == nil || identity == nil {
		return nil, errors.New("directory: backend and identity are required")
	}
	return &Directory{backend: backend, session: identity}, nil
}

// Browse fetches the listing and applies filter. Browsing requires a
// signed-in user.
func (d *Directory) Browse(ctx context.Context, filter Filter) ([]marketplace.PublicProfile, error) {
	credential := d.session.Current()
	if credential == nil {
		return nil, session.ErrNotAuthenticated
	}
	profiles, err := d.backend.PublicUsers(ctx, credential)
	if err != nil {
		return nil, err
	}
	return filter.Apply(profiles), nil
}
