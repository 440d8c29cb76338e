// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/skillbridge/skillbridge/lib/directory"
	"github.com/skillbridge/skillbridge/lib/validate"
)

// Country is an entry in the country picker.
type Country struct {
	Code string
	Name string
}

// Countries lists the countries offered for the address.
var Countries = []Country{
	{Code: "US", Name: "United States"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "IN", Name: "India"},
	{Code: "CA", Name: "Canada"},
	{Code: "AU", Name: "Australia"},
}

// Accepted values for the enumerated fields.
var (
	WorkPreferences = []string{"Remote", "On-site", "Hybrid"}
	Availabilities  = []string{"Immediate", "Within 1 week", "Within 2 weeks", "Within 1 month"}
	CurrencyCodes   = []string{"USD", "EUR", "GBP", "INR"}
	RateTypes       = []string{"H", "D", "W", "M", "P"}
)

// fieldComments are written above the matching key in a template.
var fieldComments = map[string]string{
	"countryCode":    "Calling code for mobile and WhatsApp numbers, e.g. +1, +44, +91.",
	"category":       "One of: " + strings.Join(directory.Categories, ", ") + ".",
	"summary":        fmt.Sprintf("At most %d characters.", validate.MaxSummaryLength),
	"workPreference": "One of: " + strings.Join(WorkPreferences, ", ") + ".",
	"availability":   "One of: " + strings.Join(Availabilities, ", ") + ".",
	"country":        "Country code, one of: " + countryCodes() + ".",
	"whatsappNumber": "Required when isWhatsappAvailable is true.",
	"currencyCode":   "One of: " + strings.Join(CurrencyCodes, ", ") + ".",
	"rateType":       "H hourly, D daily, W weekly, M monthly, P per project.",
}

func countryCodes() string {
	codes := make([]string, len(Countries))
	for index, country := range Countries {
		codes[index] = country.Code
	}
	return strings.Join(codes, ", ")
}

// WriteTemplate writes the form as JSONC, with a header and a comment
// above each field that accepts a constrained value. Parse reads the
// result back into an equal Form.
func (f Form) WriteTemplate(writer io.Writer, header string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	var output bytes.Buffer
	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			output.WriteString("//\n")
			continue
		}
		output.WriteString("// " + line + "\n")
	}

	for _, line := range strings.Split(string(data), "\n") {
		if key, found := templateKey(line); found {
			if comment, ok := fieldComments[key]; ok {
				output.WriteString("  // " + comment + "\n")
			}
		}
		output.WriteString(line + "\n")
	}

	_, err = writer.Write(output.Bytes())
	return err
}

// templateKey returns the key of a top-level `"key": value` line from
// MarshalIndent output.
func templateKey(line string) (string, bool) {
	if !strings.HasPrefix(line, `  "`) || strings.HasPrefix(line, `   `) {
		return "", false
	}
	rest := line[len(`  "`):]
	end := strings.Index(rest, `":`)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
