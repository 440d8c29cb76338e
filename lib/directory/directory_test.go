// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

var listing = []marketplace.PublicProfile{
	{ID: "u-1", Name: "Ada Lovelace", Category: "Software Engineer", Summary: "Analytical engines"},
	{ID: "u-2", Name: "Grace Hopper", Category: "Backend Engineer", Summary: "Compilers and COBOL"},
	{ID: "u-3", Name: "Edward Tufte", Category: "UI/UX Designer", Summary: "Information design"},
	{ID: "u-4", Name: "Nobody", Summary: ""},
}

func ids(profiles []marketplace.PublicProfile) []string {
	result := make([]string, len(profiles))
	for index, profile := range profiles {
		result[index] = profile.ID
	}
	return result
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "zero filter", filter: Filter{}, want: []string{"u-1", "u-2", "u-3", "u-4"}},
		{name: "all categories", filter: Filter{Category: AllCategories}, want: []string{"u-1", "u-2", "u-3", "u-4"}},
		{name: "name case-insensitive", filter: Filter{Query: "GRACE"}, want: []string{"u-2"}},
		{name: "category text", filter: Filter{Query: "engineer"}, want: []string{"u-1", "u-2"}},
		{name: "summary text", filter: Filter{Query: "cobol"}, want: []string{"u-2"}},
		{name: "exact category", filter: Filter{Category: "UI/UX Designer"}, want: []string{"u-3"}},
		{name: "query and category", filter: Filter{Query: "engines", Category: "Backend Engineer"}, want: []string{}},
		{name: "no match", filter: Filter{Query: "astronaut"}, want: []string{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ids(test.filter.Apply(listing))
			if len(got) != len(test.want) {
				t.Fatalf("got %v, want %v", got, test.want)
			}
			for index := range got {
				if got[index] != test.want[index] {
					t.Fatalf("got %v, want %v", got, test.want)
				}
			}
		})
	}
}

type fakeBackend struct {
	calls      int
	credential *marketplace.User
}

func (f *fakeBackend) PublicUsers(ctx context.Context, credential *marketplace.User) ([]marketplace.PublicProfile, error) {
	f.calls++
	f.credential = credential
	return listing, nil
}

type fakeIdentity struct{ user *marketplace.User }

func (f fakeIdentity) Current() *marketplace.User { return f.user.Clone() }

func TestBrowse(t *testing.T) {
	backend := &fakeBackend{}
	directory, err := New(backend, fakeIdentity{user: &marketplace.User{ID: "u-9"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	profiles, err := directory.Browse(context.Background(), Filter{Category: "Software Engineer"})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "u-1" {
		t.Errorf("profiles = %v", ids(profiles))
	}
	if backend.credential == nil || backend.credential.ID != "u-9" {
		t.Error("listing fetched without the session credential")
	}
}

func TestBrowseRequiresSession(t *testing.T) {
	backend := &fakeBackend{}
	directory, err := New(backend, fakeIdentity{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := directory.Browse(context.Background(), Filter{}); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if backend.calls != 0 {
		t.Error("request made while signed out")
	}
}
