// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli/clitest"
	"github.com/skillbridge/skillbridge/lib/profile"
	"github.com/skillbridge/skillbridge/marketplace"
)

func requireCategory(t *testing.T, err error, category cli.ErrorCategory) *cli.ToolError {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want a *cli.ToolError", err)
	}
	if toolErr.Category != category {
		t.Fatalf("category = %s, want %s (error: %v)", toolErr.Category, category, err)
	}
	return toolErr
}

func writeForm(t *testing.T, form profile.Form) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.jsonc")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := form.WriteTemplate(file, "test form"); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	return path
}

func TestTemplateThenUpdate(t *testing.T) {
	env := clitest.New(t)
	dana := env.Seed(t, "Dana", "dana@example.com")
	env.SignIn(t, dana)

	path := filepath.Join(t.TempDir(), "form.jsonc")
	output, err := env.Run(t, Command(env.App), "template", "-o", path)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if output != "Wrote "+path+"\n" {
		t.Errorf("template output = %q", output)
	}

	form, err := profile.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if form.CountryCode != profile.DefaultCountryCode || form.RateType != profile.DefaultRateType {
		t.Errorf("template defaults = %q %q", form.CountryCode, form.RateType)
	}

	form.Category = "Backend Engineer"
	form.Summary = "Go services and data pipelines"
	form.Mobile = "415-555-0100"
	form.City = "Oakland"
	form.Country = "US"
	form.StartingPrice = "450"
	path = writeForm(t, form)

	output, err = env.Run(t, Command(env.App), "update", path)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if output != "Profile updated\n" {
		t.Errorf("update output = %q", output)
	}

	stored := env.StoredUser(t)
	if stored.Summary != form.Summary || stored.Category != "Backend Engineer" {
		t.Errorf("stored profile = %q %q", stored.Category, stored.Summary)
	}
	if stored.Address == nil || stored.Address.City != "Oakland" {
		t.Errorf("stored address = %+v", stored.Address)
	}
	if stored.StartingPrice != "450" || stored.WorkPreference != profile.DefaultWorkPreference {
		t.Errorf("stored rate = %q, work = %q", stored.StartingPrice, stored.WorkPreference)
	}
}

func TestUpdateRejectsInvalidForm(t *testing.T) {
	env := clitest.New(t)
	dana := env.Seed(t, "Dana", "dana@example.com")
	env.SignIn(t, dana)

	form := profile.FromUser(dana)
	form.SecondaryEmail = "not-an-email"
	form.IsWhatsappAvailable = true
	form.Summary = strings.Repeat("x", 151)

	_, err := env.Run(t, Command(env.App), "update", "--file", writeForm(t, form))
	toolErr := requireCategory(t, err, cli.CategoryValidation)
	message := toolErr.Error()
	for _, want := range []string{"secondaryEmail:", "whatsappNumber: WhatsApp number is required", "summary: Summary must be 150 characters or less (151/150)"} {
		if !strings.Contains(message, want) {
			t.Errorf("error missing %q:\n%s", want, message)
		}
	}

	if stored := env.StoredUser(t); stored.Summary != "" {
		t.Errorf("invalid form was saved: %q", stored.Summary)
	}
}

func TestUpdateArguments(t *testing.T) {
	env := clitest.New(t)
	env.SignIn(t, env.Seed(t, "Dana", "dana@example.com"))

	_, err := env.Run(t, Command(env.App), "update")
	requireCategory(t, err, cli.CategoryValidation)

	_, err = env.Run(t, Command(env.App), "update", filepath.Join(t.TempDir(), "missing.jsonc"))
	requireCategory(t, err, cli.CategoryValidation)

	unknown := filepath.Join(t.TempDir(), "unknown.jsonc")
	if err := os.WriteFile(unknown, []byte(`{"favoriteColor": "green"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = env.Run(t, Command(env.App), "update", unknown)
	requireCategory(t, err, cli.CategoryValidation)
}

func TestShow(t *testing.T) {
	env := clitest.New(t)
	dana := env.Seed(t, "Dana", "dana@example.com")
	dana.Token = "session-token"
	env.SignIn(t, dana)

	output, err := env.Run(t, Command(env.App), "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(output, "Dana Tester") || !strings.Contains(output, "dana@example.com") {
		t.Errorf("show output:\n%s", output)
	}

	output, err = env.Run(t, Command(env.App), "show", "--json")
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var printed marketplace.User
	if err := json.Unmarshal([]byte(output), &printed); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if printed.ID != dana.ID || printed.Token != "" {
		t.Errorf("printed id = %q, token = %q", printed.ID, printed.Token)
	}
}

func TestShowFetchesUnlessCached(t *testing.T) {
	env := clitest.New(t)
	dana := env.Seed(t, "Dana", "dana@example.com")
	stale := dana.Clone()
	stale.FirstName = "Stale"
	stale.Token = "session-token"
	env.SignIn(t, stale)

	output, err := env.Run(t, Command(env.App), "show", "--cached")
	if err != nil {
		t.Fatalf("show --cached: %v", err)
	}
	if !strings.Contains(output, "Stale Tester") {
		t.Errorf("show --cached did not print the saved record:\n%s", output)
	}

	output, err = env.Run(t, Command(env.App), "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(output, "Dana Tester") || strings.Contains(output, "Stale") {
		t.Errorf("show did not print the server record:\n%s", output)
	}
	stored := env.StoredUser(t)
	if stored.FirstName != "Dana" || stored.Token != "session-token" {
		t.Errorf("stored record = %q with token %q, want the fetched record with the session token", stored.FirstName, stored.Token)
	}
}

func TestShowRequiresSession(t *testing.T) {
	env := clitest.New(t)

	_, err := env.Run(t, Command(env.App), "show")
	requireCategory(t, err, cli.CategoryForbidden)

	_, err = env.Run(t, Command(env.App), "template")
	requireCategory(t, err, cli.CategoryForbidden)
}

func TestWriteProfile(t *testing.T) {
	var builder strings.Builder
	writeProfile(&builder, &marketplace.User{
		FirstName:     "Ana",
		LastName:      "Silva",
		EmailID:       "ana@example.com",
		CountryCode:   "+44",
		Mobile:        "07700900123",
		Address:       &marketplace.Address{City: "Leeds", Country: "GB"},
		StartingPrice: "300",
		CurrencyCode:  "GBP",
		RateType:      "D",
		Negotiable:    true,
	})
	output := builder.String()
	for _, want := range []string{"Ana Silva", "+44 07700900123", "Leeds, GB", "GBP 300 (daily), negotiable"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
