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
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/search"
)

// HistoryEntry is one finalized match.
type HistoryEntry struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	FinalizedAt time.Time      `json:"finalizedAt"`
	Match       *scoring.Match `json:"match"`
}

// HistorySummary is the list view of a history entry.
type HistorySummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	FinalizedAt time.Time `json:"finalizedAt"`
	Teams       [2]string `json:"teams"`
	Totals      [2]int    `json:"totals"`
	Winner      string    `json:"winner"`
}

// Summary condenses the entry for listing.
func (e HistoryEntry) Summary() HistorySummary {
	s := HistorySummary{ID: e.ID, CreatedAt: e.CreatedAt, FinalizedAt: e.FinalizedAt, Winner: "Tie"}
	if e.Match == nil {
		return s
	}
	for i, t := range e.Match.Teams {
		s.Teams[i] = t.Name
		s.Totals[i] = e.Match.TeamTotal(i)
	}
	if team, ok := e.Match.Winner(); ok {
		s.Winner = e.Match.Teams[team].Name
	}
	return s
}

// HistoryStore keeps finalized matches, newest first.
type HistoryStore struct {
	mu   sync.Mutex
	docs DocumentStore
}

// NewHistoryStore creates a HistoryStore on top of docs.
func NewHistoryStore(docs DocumentStore) *HistoryStore {
	return &HistoryStore{docs: docs}
}

func (hs *HistoryStore) load(ctx context.Context) []HistoryEntry {
	var entries []HistoryEntry
	if err := hs.docs.Get(ctx, KeyHistory, &entries); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[STORE] Warning: could not read match history, treating it as empty: %v", err)
		}
		return []HistoryEntry{}
	}
	for _, e := range entries {
		if e.Match != nil {
			e.Match.Normalize()
		}
	}
	return entries
}

// List returns every entry, newest first.
func (hs *HistoryStore) List(ctx context.Context) []HistoryEntry {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.load(ctx)
}

// Get returns the entry with the given match ID.
func (hs *HistoryStore) Get(ctx context.Context, id string) (HistoryEntry, bool) {
	for _, e := range hs.List(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// Search returns the entries matching a history query, newest first.
// Supported keys are team, player, winner, date (compared against the
// finalization day, YYYY-MM-DD) and is:tie. Free words must each appear in
// a team or player name. Unknown keys match nothing.
func (hs *HistoryStore) Search(ctx context.Context, raw string) []HistoryEntry {
	entries := hs.List(ctx)
	q := search.Parse(raw)
	if q.Empty() {
		return entries
	}
	out := []HistoryEntry{}
	for _, e := range entries {
		if e.Match != nil && matchesQuery(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matchesQuery(e HistoryEntry, q search.Query) bool {
	m := e.Match
	names := []string{m.Teams[0].Name, m.Teams[1].Name}
	names = append(names, m.Players()...)
	for _, word := range q.FreeText {
		if !containsFold(names, word) {
			return false
		}
	}
	for _, f := range q.Filters {
		var ok bool
		switch f.Key {
		case "team":
			ok = containsFold(names[:2], f.Value)
		case "player":
			ok = equalsFold(m.Players(), f.Value)
		case "winner":
			if team, won := m.Winner(); won {
				ok = containsFold([]string{m.Teams[team].Name}, f.Value)
			}
		case "date":
			ok = f.Matches(e.FinalizedAt.UTC().Format(time.DateOnly))
		case "is":
			_, won := m.Winner()
			ok = strings.EqualFold(f.Value, "tie") && !won
		}
		if !ok {
			return false
		}
	}
	return true
}

func containsFold(names []string, sub string) bool {
	sub = strings.ToLower(sub)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), sub) {
			return true
		}
	}
	return false
}

func equalsFold(names []string, s string) bool {
	for _, n := range names {
		if strings.EqualFold(n, s) {
			return true
		}
	}
	return false
}

// Remove deletes the entry for match id finalized at the given time.
func (hs *HistoryStore) Remove(ctx context.Context, id string, finalizedAt time.Time) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	entries := hs.load(ctx)
	i := slices.IndexFunc(entries, func(e HistoryEntry) bool {
		return e.ID == id && e.FinalizedAt.Equal(finalizedAt)
	})
	if i < 0 {
		return nil
	}
	entries = slices.Delete(entries, i, i+1)
	if err := hs.docs.Put(ctx, KeyHistory, entries); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Prepend adds e at the front of the history.
func (hs *HistoryStore) Prepend(ctx context.Context, e HistoryEntry) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	entries := append([]HistoryEntry{e}, hs.load(ctx)...)
	if err := hs.docs.Put(ctx, KeyHistory, entries); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
