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

package career

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

// Store loads and saves the whole career document.
type Store interface {
	Load(ctx context.Context) (Records, error)
	Save(ctx context.Context, r Records) error
}

// Aggregator folds per-player deltas into the career store. Every Upsert is a
// full read-modify-write of the store.
type Aggregator struct {
	mu    sync.Mutex
	store Store
}

// NewAggregator returns an Aggregator backed by s.
func NewAggregator(s Store) *Aggregator {
	return &Aggregator{store: s}
}

// Upsert adds delta to the named player's record, creating it if needed.
// Blank names are ignored.
func (a *Aggregator) Upsert(ctx context.Context, name string, delta Totals) error {
	key := Key(name)
	if key == "" {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	all, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("career load: %w", err)
	}
	if all == nil {
		all = make(Records)
	}
	rec, ok := all[key]
	if !ok {
		rec = &Record{Name: key}
		all[key] = rec
	}
	rec.Add(delta)
	if err := a.store.Save(ctx, all); err != nil {
		return fmt.Errorf("career save: %w", err)
	}
	return nil
}

// Apply upserts every contribution in order, stopping at the first error.
func (a *Aggregator) Apply(ctx context.Context, cs []Contribution) error {
	for _, c := range cs {
		if err := a.Upsert(ctx, c.Name, c.Delta); err != nil {
			return fmt.Errorf("upsert %q: %w", c.Name, err)
		}
	}
	return nil
}

// All returns a copy of the current store.
func (a *Aggregator) All(ctx context.Context) (Records, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	all, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(Records, len(all))
	for k, v := range all {
		rec := *v
		out[k] = &rec
	}
	return out, nil
}

// Reset clears every record.
func (a *Aggregator) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Save(ctx, make(Records))
}

// Contribution is one delta destined for one player.
type Contribution struct {
	Name  string
	Delta Totals
}

// Contributions computes what a finished match adds to the career store: a
// match appearance for every distinct roster name, then per innings the
// batting, bowling and fielding figures of everyone who took part.
func Contributions(m *scoring.Match) []Contribution {
	var out []Contribution
	for _, p := range m.Players() {
		out = append(out, Contribution{Name: p, Delta: Totals{Matches: 1}})
	}
	for i := range m.Innings {
		inn := &m.Innings[i]
		for _, name := range slices.Sorted(maps.Keys(inn.Batting)) {
			f := inn.Batting[name]
			if f.IsZero() {
				continue
			}
			out = append(out, Contribution{Name: name, Delta: Totals{
				BatInnings: 1,
				BatRuns:    f.Runs,
				BatBalls:   f.Balls,
				BatFours:   f.Fours,
				BatSixes:   f.Sixes,
				BatOuts:    f.Outs,
			}})
		}
		for _, name := range slices.Sorted(maps.Keys(inn.Bowling)) {
			f := inn.Bowling[name]
			if f.IsZero() {
				continue
			}
			out = append(out, Contribution{Name: name, Delta: Totals{
				BowlBalls:   f.Balls,
				BowlRuns:    f.Runs,
				BowlWickets: f.Wickets,
				BowlWides:   f.Wides,
				BowlNoBalls: f.NoBalls,
			}})
		}
		for _, name := range slices.Sorted(maps.Keys(inn.Fielding)) {
			f := inn.Fielding[name]
			out = append(out, Contribution{Name: name, Delta: Totals{
				FieldWickets:   f.Wickets,
				FieldRunOuts:   f.RunOuts,
				FieldCatches:   f.Catches,
				FieldStumpings: f.Stumpings,
			}})
		}
	}
	return out
}

// MemoryStore keeps the career document in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records Records
}

// Load returns a deep copy of the stored records.
func (s *MemoryStore) Load(ctx context.Context) (Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Records, len(s.records))
	for k, v := range s.records {
		rec := *v
		out[k] = &rec
	}
	return out, nil
}

// Save replaces the stored records.
func (s *MemoryStore) Save(ctx context.Context, r Records) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = r
	return nil
}
