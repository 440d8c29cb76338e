// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"errors"
	"fmt"

	"github.com/skillbridge/skillbridge/lib/validate"
	"github.com/skillbridge/skillbridge/marketplace"
)

// Defaults for fields the user has not set.
const (
	DefaultCountryCode    = "+1"
	DefaultWorkPreference = "Remote"
	DefaultAvailability   = "Immediate"
	DefaultCurrencyCode   = "USD"
	DefaultRateType       = "D"
)

// Form is the editable part of a profile. Identity fields (name and
// primary email) are not editable here.
type Form struct {
	NickName       string `json:"nickName"`
	SecondaryEmail string `json:"secondaryEmail"`
	CountryCode    string `json:"countryCode"`
	Mobile         string `json:"mobile"`
	Category       string `json:"category"`
	Summary        string `json:"summary"`
	WorkPreference string `json:"workPreference"`
	Availability   string `json:"availability"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`

	IsWhatsappAvailable bool   `json:"isWhatsappAvailable"`
	WhatsappNumber      string `json:"whatsappNumber"`
	AllowEmailContact   bool   `json:"allowEmailContact"`
	AllowMobileContact  bool   `json:"allowMobileContact"`
	FacebookURL         string `json:"facebookUrl"`
	LinkedinURL         string `json:"linkedinUrl"`

	StartingPrice string `json:"startingPrice"`
	Negotiable    bool   `json:"negotiable"`
	CurrencyCode  string `json:"currencyCode"`
	RateType      string `json:"rateType"`
}

// FromUser builds a form from the server's record, applying defaults to
// empty fields.
func FromUser(user *marketplace.User) Form {
	form := Form{
		NickName:       user.NickName,
		SecondaryEmail: user.SecondaryEmail,
		CountryCode:    orDefault(user.CountryCode, DefaultCountryCode),
		Mobile:         user.Mobile,
		Category:       user.Category,
		Summary:        user.Summary,
		WorkPreference: orDefault(user.WorkPreference, DefaultWorkPreference),
		Availability:   orDefault(user.Availability, DefaultAvailability),

		IsWhatsappAvailable: user.IsWhatsappAvailable,
		WhatsappNumber:      user.WhatsappNumber,
		AllowEmailContact:   user.AllowEmailContact,
		AllowMobileContact:  user.AllowMobileContact,
		FacebookURL:         user.FacebookURL,
		LinkedinURL:         user.LinkedinURL,

		StartingPrice: string(user.StartingPrice),
		Negotiable:    user.Negotiable,
		CurrencyCode:  orDefault(user.CurrencyCode, DefaultCurrencyCode),
		RateType:      orDefault(user.RateType, DefaultRateType),
	}
	if address := user.Address; address != nil {
		form.AddressLine1 = address.AddressLine1
		form.AddressLine2 = address.AddressLine2
		form.City = address.City
		form.State = address.State
		form.Postcode = address.Postcode
		form.Country = address.Country
	}
	return form
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FieldError is a validation failure for one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every field and returns all failures joined, each a
// *FieldError. Empty optional fields are valid.
func (f Form) Validate() error {
	var errs []error
	check := func(field string, result validate.Result) {
		if !result.Valid {
			errs = append(errs, &FieldError{Field: field, Message: result.Message})
		}
	}

	if f.SecondaryEmail != "" {
		check("secondaryEmail", validate.Email(f.SecondaryEmail))
	}
	check("mobile", validate.Mobile(f.Mobile, f.CountryCode))
	if f.IsWhatsappAvailable {
		check("whatsappNumber", validate.Required(f.WhatsappNumber, "WhatsApp number"))
		check("whatsappNumber", validate.Mobile(f.WhatsappNumber, f.CountryCode))
	}
	check("summary", validate.Summary(f.Summary))

	return errors.Join(errs...)
}

// FieldErrors unpacks the *FieldError values from a Validate error.
func FieldErrors(err error) []*FieldError {
	var fieldErrors []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			var fieldErr *FieldError
			if errors.As(inner, &fieldErr) {
				fieldErrors = append(fieldErrors, fieldErr)
			}
		}
		return fieldErrors
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		fieldErrors = append(fieldErrors, fieldErr)
	}
	return fieldErrors
}

// Update converts the form into an update request carrying every
// editable field, with the address nested.
func (f Form) Update() marketplace.ProfileUpdate {
	return marketplace.ProfileUpdate{
		NickName:       &f.NickName,
		SecondaryEmail: &f.SecondaryEmail,
		CountryCode:    &f.CountryCode,
		Mobile:         &f.Mobile,
		Category:       &f.Category,
		Summary:        &f.Summary,
		WorkPreference: &f.WorkPreference,
		Availability:   &f.Availability,
		Address: &marketplace.Address{
			AddressLine1: f.AddressLine1,
			AddressLine2: f.AddressLine2,
			City:         f.City,
			State:        f.State,
			Postcode:     f.Postcode,
			Country:      f.Country,
		},

		IsWhatsappAvailable: &f.IsWhatsappAvailable,
		WhatsappNumber:      &f.WhatsappNumber,
		AllowEmailContact:   &f.AllowEmailContact,
		AllowMobileContact:  &f.AllowMobileContact,
		FacebookURL:         &f.FacebookURL,
		LinkedinURL:         &f.LinkedinURL,

		StartingPrice: &f.StartingPrice,
		Negotiable:    &f.Negotiable,
		CurrencyCode:  &f.CurrencyCode,
		RateType:      &f.RateType,
	}
}
