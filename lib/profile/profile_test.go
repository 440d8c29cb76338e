// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillbridge/skillbridge/marketplace"
)

func TestFromUserDefaults(t *testing.T) {
	t.Parallel()

	form := FromUser(&marketplace.User{ID: "u1", EmailID: "a@b.co"})

	if form.CountryCode != DefaultCountryCode {
		t.Errorf("CountryCode = %q, want %q", form.CountryCode, DefaultCountryCode)
	}
	if form.WorkPreference != DefaultWorkPreference {
		t.Errorf("WorkPreference = %q, want %q", form.WorkPreference, DefaultWorkPreference)
	}
	if form.Availability != DefaultAvailability {
		t.Errorf("Availability = %q, want %q", form.Availability, DefaultAvailability)
	}
	if form.CurrencyCode != DefaultCurrencyCode {
		t.Errorf("CurrencyCode = %q, want %q", form.CurrencyCode, DefaultCurrencyCode)
	}
	if form.RateType != DefaultRateType {
		t.Errorf("RateType = %q, want %q", form.RateType, DefaultRateType)
	}
	if form.City != "" {
		t.Errorf("City = %q, want empty without an address", form.City)
	}
}

func TestFromUserKeepsValues(t *testing.T) {
	t.Parallel()

	form := FromUser(&marketplace.User{
		ID:            "u1",
		CountryCode:   "+44",
		Mobile:        "07700900123",
		StartingPrice: "45",
		RateType:      "H",
		Address:       &marketplace.Address{City: "Leeds", Country: "GB"},
	})

	if form.CountryCode != "+44" || form.Mobile != "07700900123" {
		t.Errorf("contact = %q %q", form.CountryCode, form.Mobile)
	}
	if form.StartingPrice != "45" || form.RateType != "H" {
		t.Errorf("rate = %q %q", form.StartingPrice, form.RateType)
	}
	if form.City != "Leeds" || form.Country != "GB" {
		t.Errorf("address = %q %q", form.City, form.Country)
	}
}

func TestUpdateSendsEveryField(t *testing.T) {
	t.Parallel()

	form := FromUser(&marketplace.User{ID: "u1"})
	form.City = "Austin"

	data, err := json.Marshal(form.Update())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	// Empty strings and false values are still sent so the server
	// can clear them.
	for _, key := range []string{"nickName", "mobile", "summary", "negotiable", "isWhatsappAvailable", "startingPrice"} {
		if _, ok := body[key]; !ok {
			t.Errorf("update missing %q", key)
		}
	}
	for _, key := range []string{"city", "addressLine1", "firstName", "emailId"} {
		if _, ok := body[key]; ok {
			t.Errorf("update should not carry top-level %q", key)
		}
	}
	address, ok := body["address"].(map[string]any)
	if !ok {
		t.Fatalf("address = %#v, want nested object", body["address"])
	}
	if address["city"] != "Austin" {
		t.Errorf("address.city = %v, want Austin", address["city"])
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := FromUser(&marketplace.User{ID: "u1"})
	if err := valid.Validate(); err != nil {
		t.Fatalf("default form: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Form)
		fields []string
	}{
		{"bad secondary email", func(f *Form) { f.SecondaryEmail = "nope" }, []string{"secondaryEmail"}},
		{"short US mobile", func(f *Form) { f.Mobile = "12345" }, []string{"mobile"}},
		{"whatsapp without number", func(f *Form) { f.IsWhatsappAvailable = true }, []string{"whatsappNumber"}},
		{"whatsapp number ignored when disabled", func(f *Form) { f.WhatsappNumber = "1" }, nil},
		{"long summary", func(f *Form) { f.Summary = strings.Repeat("x", 151) }, []string{"summary"}},
		{
			"several failures",
			func(f *Form) {
				f.SecondaryEmail = "nope"
				f.Summary = strings.Repeat("x", 151)
			},
			[]string{"secondaryEmail", "summary"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			form := valid
			test.modify(&form)

			err := form.Validate()
			if test.fields == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate should fail")
			}

			fieldErrors := FieldErrors(err)
			if len(fieldErrors) != len(test.fields) {
				t.Fatalf("got %d field errors (%v), want %d", len(fieldErrors), err, len(test.fields))
			}
			for index, field := range test.fields {
				if fieldErrors[index].Field != field {
					t.Errorf("error %d field = %q, want %q", index, fieldErrors[index].Field, field)
				}
			}

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Error("errors.As should find a *FieldError")
			}
		})
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	t.Parallel()

	form := FromUser(&marketplace.User{
		ID:       "u1",
		NickName: "Dee",
		Summary:  "Plumbing, \"fast\" and tidy",
		Address:  &marketplace.Address{City: "Austin", Country: "US"},
	})

	var buffer bytes.Buffer
	if err := form.WriteTemplate(&buffer, "Edit your profile.\n\nSave and run profile update."); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	text := buffer.String()

	if !strings.HasPrefix(text, "// Edit your profile.\n//\n") {
		t.Errorf("template header:\n%s", text)
	}
	if !strings.Contains(text, "// One of: Remote, On-site, Hybrid.") {
		t.Error("template should describe workPreference values")
	}

	parsed, err := Parse(buffer.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, text)
	}
	if parsed != form {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, form)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("comments and trailing commas", func(t *testing.T) {
		form, err := Parse([]byte(`{
			// nickname
			"nickName": "Dee", /* inline */
			"negotiable": true,
		}`))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if form.NickName != "Dee" || !form.Negotiable {
			t.Errorf("form = %+v", form)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte(`{"nickname": "Dee"}`))
		if err == nil {
			t.Fatal("Parse should reject an unknown field")
		}
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := Parse([]byte(`{} {}`))
		if err == nil {
			t.Fatal("Parse should reject a second object")
		}
	})
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.jsonc")
	if err := os.WriteFile(path, []byte(`{"city": "Perth",}`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	form, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if form.City != "Perth" {
		t.Errorf("City = %q, want Perth", form.City)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err == nil || !strings.Contains(err.Error(), "missing.jsonc") {
		t.Errorf("ReadFile missing = %v, want error naming the file", err)
	}
}
