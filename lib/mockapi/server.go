// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/validate"
	"github.com/skillbridge/skillbridge/marketplace"
)

// maxRequestSize bounds request bodies.
const maxRequestSize = 1 << 20

// Config holds the dependencies of a Server.
type Config struct {
	// Clock stamps messages. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives one debug record per request. Nil discards.
	Logger *slog.Logger

	// BcryptCost is the hashing cost for stored passwords. Zero uses
	// bcrypt.DefaultCost; tests pass bcrypt.MinCost.
	BcryptCost int
}

// Server is an in-memory marketplace backend. It implements
// http.Handler and is safe for concurrent use.
type Server struct {
	clock      clock.Clock
	logger     *slog.Logger
	bcryptCost int
	router     *mux.Router

	mu       sync.Mutex
	accounts map[string]*account
	byEmail  map[string]string
	tokens   map[string]string
	messages []marketplace.Message
}

type account struct {
	user         marketplace.User
	passwordHash []byte
}

var _ http.Handler = (*Server)(nil)

// New creates an empty server.
func New(config Config) *Server {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}

	server := &Server{
		clock:      config.Clock,
		logger:     config.Logger,
		bcryptCost: config.BcryptCost,
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		tokens:     make(map[string]string),
	}

	router := mux.NewRouter()
	router.Use(server.logRequests)
	router.HandleFunc("/api/login", server.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/api/register", server.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/api/users/public", server.handlePublicUsers).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", server.authenticated(server.handleGetUser)).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", server.authenticated(server.handleUpdateUser)).Methods(http.MethodPut)
	router.HandleFunc("/api/messages/conversations", server.authenticated(server.handleConversations)).Methods(http.MethodGet)
	router.HandleFunc("/api/messages", server.authenticated(server.handleMessages)).Methods(http.MethodGet)
	router.HandleFunc("/api/messages", server.authenticated(server.handleSendMessage)).Methods(http.MethodPost)
	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeError(writer, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeError(writer, http.StatusMethodNotAllowed, "Method not allowed")
	})
	server.router = router

	return server
}

// ServeHTTP dispatches to the API routes.
func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.router.ServeHTTP(writer, request)
}

// Seed describes a user created directly, bypassing registration.
type Seed struct {
	FirstName string
	LastName  string
	EmailID   string
	Password  string
	Category  string
	Summary   string
}

// SeedUser creates an account and returns its record.
func (s *Server) SeedUser(seed Seed) (*marketplace.User, error) {
	return s.createAccount(marketplace.User{
		FirstName: seed.FirstName,
		LastName:  seed.LastName,
		EmailID:   seed.EmailID,
		Category:  seed.Category,
		Summary:   seed.Summary,
	}, seed.Password)
}

// SeedMessage stores a message as if senderID had sent it, stamped
// with the current clock time.
func (s *Server) SeedMessage(senderID, receiverID, content string) (*marketplace.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[senderID]; !ok {
		return nil, fmt.Errorf("mockapi: unknown sender %q", senderID)
	}
	if _, ok := s.accounts[receiverID]; !ok {
		return nil, fmt.Errorf("mockapi: unknown receiver %q", receiverID)
	}
	message := s.appendMessageLocked(senderID, receiverID, "", content)
	return &message, nil
}

var errEmailTaken = errors.New("mockapi: email already registered")

func (s *Server) createAccount(user marketplace.User, password string) (*marketplace.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("mockapi: hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := validate.NormalizeEmail(user.EmailID)
	if _, exists := s.byEmail[email]; exists {
		return nil, errEmailTaken
	}

	user.ID = uuid.NewString()
	user.EmailID = email
	if user.RoleType == "" {
		user.RoleType = "user"
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	s.byEmail[email] = user.ID
	return user.Clone(), nil
}

// logRequests is router middleware recording each request at debug
// level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		s.logger.Debug("mock api request",
			"method", request.Method,
			"path", request.URL.Path,
			"request_id", request.Header.Get(marketplace.RequestIDHeader),
		)
		next.ServeHTTP(writer, request)
	})
}

type authenticatedHandler func(writer http.ResponseWriter, request *http.Request, caller *marketplace.User)

// authenticated resolves the caller and rejects the request with 401
// when it cannot be identified.
func (s *Server) authenticated(handler authenticatedHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		caller, ok := s.caller(request)
		if !ok {
			writeError(writer, http.StatusUnauthorized, "Authentication required")
			return
		}
		handler(writer, request, caller)
	}
}

// caller identifies the requesting user from a known bearer token or,
// failing that, from an x-current-user record naming an existing
// account with a matching email.
func (s *Server) caller(request *http.Request) (*marketplace.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, found := strings.CutPrefix(request.Header.Get("Authorization"), "Bearer "); found {
		if userID, ok := s.tokens[token]; ok {
			return s.accounts[userID].user.Clone(), true
		}
	}

	header := request.Header.Get(marketplace.CurrentUserHeader)
	if header == "" {
		return nil, false
	}
	var claimed marketplace.User
	if err := json.Unmarshal([]byte(header), &claimed); err != nil {
		return nil, false
	}
	stored, ok := s.accounts[claimed.ID]
	if !ok || validate.NormalizeEmail(claimed.EmailID) != stored.user.EmailID {
		return nil, false
	}
	return stored.user.Clone(), true
}

func decodeBody(writer http.ResponseWriter, request *http.Request, target any) bool {
	body := http.MaxBytesReader(writer, request.Body, maxRequestSize)
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(writer, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, map[string]string{"error": message})
}

// sortedAccountsLocked returns accounts ordered by display name, then
// id. Caller must hold s.mu.
func (s *Server) sortedAccountsLocked() []*account {
	accounts := make([]*account, 0, len(s.accounts))
	for _, stored := range s.accounts {
		accounts = append(accounts, stored)
	}
	sort.Slice(accounts, func(i, j int) bool {
		left, right := accounts[i].user.DisplayName(), accounts[j].user.DisplayName()
		if left != right {
			return left < right
		}
		return accounts[i].user.ID < accounts[j].user.ID
	})
	return accounts
}
