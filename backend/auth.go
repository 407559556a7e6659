// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"log"
	"net/http"
	"slices"
	"strings"
)

type contextKey struct{}

// userIDKey is the context key for the authenticated user's ID (email).
// The associated value is always a string.
var userIDKey contextKey

// getUserID returns the UserID from the request context, if present.
func getUserID(r *http.Request) string {
	if val := r.Context().Value(userIDKey); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// normalizeEmail ensures consistent casing and whitespace for User IDs.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// maskEmail obscures an email address for safe logging.
// e.g. "user@example.com" -> "u***@example.com"
func maskEmail(email string) string {
	if email == "" {
		return "<empty>"
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || len(parts[0]) < 1 {
		return "****"
	}
	return string(parts[0][0]) + "***@" + parts[1]
}

type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessRead
	AccessWrite
)

// AccessPolicy decides who may score. Reading the scoreboard, history and
// career tables is always open.
type AccessPolicy struct {
	// RequireLogin restricts scoring to authenticated users.
	RequireLogin bool
	// Scorers, when non-empty, further restricts scoring to these emails.
	Scorers []string
}

// NewAccessPolicy normalizes the scorer list, dropping invalid entries.
func NewAccessPolicy(requireLogin bool, scorers []string) AccessPolicy {
	p := AccessPolicy{RequireLogin: requireLogin || len(scorers) > 0}
	for _, s := range scorers {
		s = normalizeEmail(s)
		if s == "" {
			continue
		}
		if !isValidEmail(s) {
			log.Printf("[AUTH] Ignoring invalid scorer address %q", s)
			continue
		}
		p.Scorers = append(p.Scorers, s)
	}
	return p
}

// Access returns the effective access level of userId.
func (p AccessPolicy) Access(userId string) AccessLevel {
	if !p.RequireLogin {
		return AccessWrite
	}
	userId = normalizeEmail(userId)
	if userId == "" || !isValidEmail(userId) {
		return AccessRead
	}
	if len(p.Scorers) == 0 || slices.Contains(p.Scorers, userId) {
		return AccessWrite
	}
	return AccessRead
}
