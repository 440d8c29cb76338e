// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/skillbridge/lib/conversation"
	"github.com/skillbridge/skillbridge/lib/validate"
	"github.com/skillbridge/skillbridge/marketplace"
)

type credentials struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

type registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	EmailID   string `json:"emailId"`
	Password  string `json:"password"`
}

func (s *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var login credentials
	if !decodeBody(writer, request, &login) {
		return
	}
	if strings.TrimSpace(login.EmailID) == "" || login.Password == "" {
		writeError(writer, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	userID, found := s.byEmail[validate.NormalizeEmail(login.EmailID)]
	var hash []byte
	if found {
		hash = s.accounts[userID].passwordHash
	}
	s.mu.Unlock()

	if !found || bcrypt.CompareHashAndPassword(hash, []byte(login.Password)) != nil {
		writeError(writer, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	user := s.accounts[userID].user.Clone()
	s.mu.Unlock()

	user.Token = token
	writeJSON(writer, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var form registration
	if !decodeBody(writer, request, &form) {
		return
	}

	checks := []validate.Result{
		validate.Registration(validate.RegistrationInput{
			FirstName:       form.FirstName,
			LastName:        form.LastName,
			Email:           form.EmailID,
			Password:        form.Password,
			ConfirmPassword: form.Password,
		}),
		validate.Email(form.EmailID),
		validate.Password(form.Password),
	}
	for _, check := range checks {
		if !check.Valid {
			writeError(writer, http.StatusBadRequest, check.Message)
			return
		}
	}

	user, err := s.createAccount(marketplace.User{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		EmailID:   form.EmailID,
	}, form.Password)
	if errors.Is(err, errEmailTaken) {
		writeError(writer, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		s.logger.Error("mock api registration failed", "error", err)
		writeError(writer, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeJSON(writer, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) handlePublicUsers(writer http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	accounts := s.sortedAccountsLocked()
	profiles := make([]marketplace.PublicProfile, 0, len(accounts))
	for _, stored := range accounts {
		profiles = append(profiles, marketplace.PublicProfile{
			ID:       stored.user.ID,
			Name:     stored.user.DisplayName(),
			EmailID:  stored.user.EmailID,
			Category: stored.user.Category,
			Summary:  stored.user.Summary,
		})
	}
	s.mu.Unlock()

	writeJSON(writer, http.StatusOK, map[string]any{"users": profiles})
}

func (s *Server) handleGetUser(writer http.ResponseWriter, request *http.Request, _ *marketplace.User) {
	userID := mux.Vars(request)["id"]

	s.mu.Lock()
	stored, found := s.accounts[userID]
	var user *marketplace.User
	if found {
		user = stored.user.Clone()
	}
	s.mu.Unlock()

	if !found {
		writeError(writer, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(writer, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleUpdateUser(writer http.ResponseWriter, request *http.Request, caller *marketplace.User) {
	userID := mux.Vars(request)["id"]
	if userID != caller.ID {
		writeError(writer, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var update marketplace.ProfileUpdate
	if !decodeBody(writer, request, &update) {
		return
	}
	if update.Summary != nil {
		if result := validate.Summary(*update.Summary); !result.Valid {
			writeError(writer, http.StatusBadRequest, result.Message)
			return
		}
	}

	s.mu.Lock()
	stored, found := s.accounts[userID]
	var user *marketplace.User
	if found {
		applyUpdate(&stored.user, update)
		user = stored.user.Clone()
	}
	s.mu.Unlock()

	if !found {
		writeError(writer, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(writer, http.StatusOK, map[string]any{"user": user})
}

// applyUpdate copies every field present in update onto user. The
// address is replaced as a whole.
func applyUpdate(user *marketplace.User, update marketplace.ProfileUpdate) {
	setString := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	setBool := func(target *bool, value *bool) {
		if value != nil {
			*target = *value
		}
	}

	setString(&user.FirstName, update.FirstName)
	setString(&user.LastName, update.LastName)
	setString(&user.NickName, update.NickName)
	setString(&user.SecondaryEmail, update.SecondaryEmail)
	setString(&user.CountryCode, update.CountryCode)
	setString(&user.Mobile, update.Mobile)
	setString(&user.Category, update.Category)
	setString(&user.Summary, update.Summary)
	setString(&user.WorkPreference, update.WorkPreference)
	setString(&user.Availability, update.Availability)
	if update.Address != nil {
		address := *update.Address
		user.Address = &address
	}

	setBool(&user.IsWhatsappAvailable, update.IsWhatsappAvailable)
	setString(&user.WhatsappNumber, update.WhatsappNumber)
	setBool(&user.AllowEmailContact, update.AllowEmailContact)
	setBool(&user.AllowMobileContact, update.AllowMobileContact)
	setString(&user.FacebookURL, update.FacebookURL)
	setString(&user.LinkedinURL, update.LinkedinURL)

	if update.StartingPrice != nil {
		user.StartingPrice = marketplace.Amount(*update.StartingPrice)
	}
	setBool(&user.Negotiable, update.Negotiable)
	setString(&user.CurrencyCode, update.CurrencyCode)
	setString(&user.RateType, update.RateType)
}

func (s *Server) handleConversations(writer http.ResponseWriter, _ *http.Request, caller *marketplace.User) {
	s.mu.Lock()
	byContact := make(map[string]*marketplace.ConversationSummary)
	for _, message := range s.messages {
		var contactID string
		switch caller.ID {
		case message.SenderID:
			contactID = message.ReceiverID
		case message.ReceiverID:
			contactID = message.SenderID
		default:
			continue
		}

		summary, exists := byContact[contactID]
		if !exists {
			summary = &marketplace.ConversationSummary{ContactID: contactID}
			if contact, ok := s.accounts[contactID]; ok {
				summary.ContactName = contact.user.DisplayName()
			}
			byContact[contactID] = summary
		}
		if !message.CreatedAt.Before(summary.LastMessageTime) {
			summary.LastMessage = message.Content
			summary.LastMessageTime = message.CreatedAt
		}
		if message.ReceiverID == caller.ID && !message.IsRead {
			summary.UnreadCount++
		}
	}
	s.mu.Unlock()

	conversations := make([]marketplace.ConversationSummary, 0, len(byContact))
	for _, summary := range byContact {
		conversations = append(conversations, *summary)
	}
	sort.Slice(conversations, func(i, j int) bool {
		left, right := conversations[i], conversations[j]
		if !left.LastMessageTime.Equal(right.LastMessageTime) {
			return left.LastMessageTime.After(right.LastMessageTime)
		}
		return left.ContactID < right.ContactID
	})

	writeJSON(writer, http.StatusOK, map[string]any{"conversations": conversations})
}

// handleMessages returns the thread with contactId, oldest first, as it
// stood before this read. Messages from the contact are then marked
// read.
func (s *Server) handleMessages(writer http.ResponseWriter, request *http.Request, caller *marketplace.User) {
	contactID := request.URL.Query().Get("contactId")
	if contactID == "" {
		writeError(writer, http.StatusBadRequest, "contactId is required")
		return
	}

	s.mu.Lock()
	thread := make([]marketplace.Message, 0)
	for index := range s.messages {
		message := &s.messages[index]
		outgoing := message.SenderID == caller.ID && message.ReceiverID == contactID
		incoming := message.SenderID == contactID && message.ReceiverID == caller.ID
		if !outgoing && !incoming {
			continue
		}
		thread = append(thread, *message)
		if incoming {
			message.IsRead = true
		}
	}
	s.mu.Unlock()

	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	writeJSON(writer, http.StatusOK, map[string]any{"messages": thread})
}

func (s *Server) handleSendMessage(writer http.ResponseWriter, request *http.Request, caller *marketplace.User) {
	var send marketplace.SendMessageRequest
	if !decodeBody(writer, request, &send) {
		return
	}

	content := strings.TrimSpace(send.Content)
	switch {
	case content == "":
		writeError(writer, http.StatusBadRequest, "Message content is required")
		return
	case utf8.RuneCountInString(content) > conversation.MaxContentLength:
		writeError(writer, http.StatusBadRequest, "Message is too long")
		return
	case send.ReceiverID == "":
		writeError(writer, http.StatusBadRequest, "Receiver is required")
		return
	case send.ReceiverID == caller.ID:
		writeError(writer, http.StatusBadRequest, "Cannot send a message to yourself")
		return
	}

	s.mu.Lock()
	_, found := s.accounts[send.ReceiverID]
	var message marketplace.Message
	if found {
		message = s.appendMessageLocked(caller.ID, send.ReceiverID, send.Subject, content)
	}
	s.mu.Unlock()

	if !found {
		writeError(writer, http.StatusNotFound, "Recipient not found")
		return
	}
	writeJSON(writer, http.StatusCreated, map[string]any{"message": message})
}

// appendMessageLocked stores a new message. Caller must hold s.mu.
func (s *Server) appendMessageLocked(senderID, receiverID, subject, content string) marketplace.Message {
	message := marketplace.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Subject:    subject,
		Content:    content,
		CreatedAt:  s.clock.Now().UTC(),
	}
	s.messages = append(s.messages, message)
	return message
}
