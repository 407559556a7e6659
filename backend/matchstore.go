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
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

// ErrNoMatch is returned when there is no current match.
var ErrNoMatch = errors.New("no current match")

// MatchStore persists the in-progress match snapshot.
type MatchStore struct {
	docs DocumentStore
}

// NewMatchStore creates a MatchStore on top of docs.
func NewMatchStore(docs DocumentStore) *MatchStore {
	return &MatchStore{docs: docs}
}

// Load returns the current match. A missing or unreadable snapshot is
// reported as ErrNoMatch; the latter is also logged.
func (ms *MatchStore) Load(ctx context.Context) (*scoring.Match, error) {
	var m scoring.Match
	if err := ms.docs.Get(ctx, KeyCurrentMatch, &m); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[STORE] Warning: could not read current match, starting empty: %v", err)
		}
		return nil, ErrNoMatch
	}
	if m.ID == "" {
		log.Printf("[STORE] Warning: current match snapshot has no ID, ignoring it")
		return nil, ErrNoMatch
	}
	for i, inn := range m.Innings {
		for _, d := range inn.Deliveries {
			if !d.Kind.Valid() {
				log.Printf("[STORE] Warning: innings %d of match %s has unknown delivery kind %q, ignoring it", i+1, m.ID, d.Kind)
				return nil, ErrNoMatch
			}
		}
	}
	m.Normalize()
	return &m, nil
}

// Save writes the match snapshot.
func (ms *MatchStore) Save(ctx context.Context, m *scoring.Match) error {
	if err := ms.docs.Put(ctx, KeyCurrentMatch, m); err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

// Clear removes the current match.
func (ms *MatchStore) Clear(ctx context.Context) error {
	return ms.docs.Delete(ctx, KeyCurrentMatch)
}
