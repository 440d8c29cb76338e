// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"strings"
	"time"

	"github.com/skillbridge/skillbridge/lib/secret"
)

// User is the server's canonical record for an account. The same record
// is the client's session: it is persisted locally after login and
// replayed as the request credential.
//
// Fields the client does not know about are kept in Extra so that a
// record read from the server and written back to disk or into the
// credential header is not silently truncated.
type User struct {
	ID        string `json:"id"`
	EmailID   string `json:"emailId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleType  string `json:"roleType,omitempty"`

	// Token is an opaque session token. Only present when the backend
	// issues one; sent as a bearer token alongside the legacy header.
	Token string `json:"token,omitempty"`

	NickName       string   `json:"nickName,omitempty"`
	SecondaryEmail string   `json:"secondaryEmail,omitempty"`
	CountryCode    string   `json:"countryCode,omitempty"`
	Mobile         string   `json:"mobile,omitempty"`
	Category       string   `json:"category,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	WorkPreference string   `json:"workPreference,omitempty"`
	Availability   string   `json:"availability,omitempty"`
	Address        *Address `json:"address,omitempty"`

	IsWhatsappAvailable bool   `json:"isWhatsappAvailable,omitempty"`
	WhatsappNumber      string `json:"whatsappNumber,omitempty"`
	AllowEmailContact   bool   `json:"allowEmailContact,omitempty"`
	AllowMobileContact  bool   `json:"allowMobileContact,omitempty"`
	FacebookURL         string `json:"facebookUrl,omitempty"`
	LinkedinURL         string `json:"linkedinUrl,omitempty"`

	StartingPrice Amount `json:"startingPrice,omitempty"`
	Negotiable    bool   `json:"negotiable,omitempty"`
	CurrencyCode  string `json:"currencyCode,omitempty"`
	RateType      string `json:"rateType,omitempty"`

	// Extra holds top-level fields not modeled above, verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

// Address is the postal address nested in a User record.
type Address struct {
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
}

// userFields has User's fields without its JSON methods.
type userFields User

var knownUserKeys = jsonFieldNames(reflect.TypeOf(userFields{}))

func jsonFieldNames(structType reflect.Type) []string {
	var names []string
	for index := range structType.NumField() {
		tag := structType.Field(index).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var fields userFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownUserKeys {
		delete(all, key)
	}
	if len(all) == 0 {
		all = nil
	}
	fields.Extra = all

	*u = User(fields)
	return nil
}

// MarshalJSON encodes the modeled fields followed by Extra. Modeled
// fields win if Extra repeats a key.
func (u User) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(userFields(u))
	if err != nil || len(u.Extra) == 0 {
		return encoded, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for key, value := range u.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy of u. Nil-safe.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Address != nil {
		address := *u.Address
		clone.Address = &address
	}
	clone.Extra = maps.Clone(u.Extra)
	return &clone
}

// DisplayName is the name shown for the user: first and last name, or
// the email address when both are empty.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.EmailID
	}
	return name
}

// Amount is a price as sent by the backend, which may encode it as a
// JSON string or a JSON number. It is kept as text.
type Amount string

// UnmarshalJSON accepts a string, a number, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*a = Amount(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*a = Amount(number.String())
	return nil
}

// PublicProfile is a directory entry from the public user listing.
type PublicProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailID      string `json:"emailId"`
	Category     string `json:"category,omitempty"`
	Summary      string `json:"summary,omitempty"`
	PhotoPresent bool   `json:"photoPresent,omitempty"`
}

// Message is a single direct message. Messages are immutable once the
// server has stored them.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Subject    string    `json:"subject,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	IsRead     bool      `json:"isRead"`
}

// ConversationSummary is the server's per-contact overview of the
// current user's direct messages.
type ConversationSummary struct {
	ContactID       string    `json:"contactId"`
	ContactName     string    `json:"contactName"`
	LastMessage     string    `json:"lastMessage,omitempty"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

// RegisterRequest holds the fields for creating an account. Password is
// read but not closed by Register; the caller retains ownership.
type RegisterRequest struct {
	FirstName string
	LastName  string
	EmailID   string
	Password  *secret.Buffer
}

// SendMessageRequest is the body of a message send.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Subject    string `json:"subject,omitempty"`
}

// ProfileUpdate is a partial update of the current user's profile. Nil
// fields are omitted from the request and left unchanged by the server.
type ProfileUpdate struct {
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	NickName       *string  `json:"nickName,omitempty"`
	SecondaryEmail *string  `json:"secondaryEmail,omitempty"`
	CountryCode    *string  `json:"countryCode,omitempty"`
	Mobile         *string  `json:"mobile,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Summary        *string  `json:"summary,omitempty"`
	WorkPreference *string  `json:"workPreference,omitempty"`
	Availability   *string  `json:"availability,omitempty"`
	Address        *Address `json:"address,omitempty"`

	IsWhatsappAvailable *bool   `json:"isWhatsappAvailable,omitempty"`
	WhatsappNumber      *string `json:"whatsappNumber,omitempty"`
	AllowEmailContact   *bool   `json:"allowEmailContact,omitempty"`
	AllowMobileContact  *bool   `json:"allowMobileContact,omitempty"`
	FacebookURL         *string `json:"facebookUrl,omitempty"`
	LinkedinURL         *string `json:"linkedinUrl,omitempty"`

	StartingPrice *string `json:"startingPrice,omitempty"`
	Negotiable    *bool   `json:"negotiable,omitempty"`
	CurrencyCode  *string `json:"currencyCode,omitempty"`
	RateType      *string `json:"rateType,omitempty"`
}

// userEnvelope is the {user} response shape.
type userEnvelope struct {
	User *User `json:"user"`
}

type usersEnvelope struct {
	Users []PublicProfile `json:"users"`
}

type messagesEnvelope struct {
	Messages []Message `json:"messages"`
}

type conversationsEnvelope struct {
	Conversations []ConversationSummary `json:"conversations"`
}

type messageEnvelope struct {
	Message *Message `json:"message"`
}
