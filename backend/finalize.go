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
	"time"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

var (
	// ErrDoubleFinalization is returned when finalizing an already finalized
	// match without confirmation.
	ErrDoubleFinalization = errors.New("match already finalized")
	// ErrMatchInProgress is returned when finalizing before both innings end.
	ErrMatchInProgress = errors.New("match is still in progress")
)

// Finalizer folds a completed match into history and career totals.
type Finalizer struct {
	matches *MatchStore
	history *HistoryStore
	careers *career.Aggregator
	now     func() time.Time
}

// NewFinalizer creates a Finalizer.
func NewFinalizer(matches *MatchStore, history *HistoryStore, careers *career.Aggregator) *Finalizer {
	return &Finalizer{
		matches: matches,
		history: history,
		careers: careers,
		now:     time.Now,
	}
}

// Finalize records m. A second finalization needs confirm, and then adds the
// match to careers again.
func (f *Finalizer) Finalize(ctx context.Context, m *scoring.Match, confirm bool) error {
	if !m.Completed {
		return ErrMatchInProgress
	}
	if m.Finalized() && !confirm {
		return ErrDoubleFinalization
	}
	prev := m.FinalizedAt
	now := f.now().UTC()
	m.FinalizedAt = &now

	entry := HistoryEntry{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		FinalizedAt: now,
		Match:       m,
	}
	if err := f.history.Prepend(ctx, entry); err != nil {
		m.FinalizedAt = prev
		return fmt.Errorf("finalize %s: %w", m.ID, err)
	}
	if err := f.careers.Apply(ctx, career.Contributions(m)); err != nil {
		// Withdraw the entry so a retry does not list the match twice.
		if rerr := f.history.Remove(ctx, m.ID, now); rerr != nil {
			log.Printf("[STORE] Failed to withdraw history entry for %s: %v", m.ID, rerr)
		}
		m.FinalizedAt = prev
		return fmt.Errorf("finalize %s: %w", m.ID, err)
	}
	if err := f.matches.Save(ctx, m); err != nil {
		return fmt.Errorf("finalize %s: %w", m.ID, err)
	}
	return nil
}
