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

package scoring

import "fmt"

// Phase is the state of a match.
type Phase string

// Match phases.
const (
	PhaseAwaitingSetup Phase = "awaiting-setup"
	PhaseInnings1      Phase = "innings-1-active"
	PhaseInnings2      Phase = "innings-2-active"
	PhaseCompleted     Phase = "completed"
)

// Event drives a phase transition.
type Event string

// Match events.
const (
	EventStart          Event = "start"
	EventOversExhausted Event = "overs-exhausted"
	EventRetract        Event = "retract"
)

// Transition is one allowed edge of the match state machine.
type Transition struct {
	From  Phase
	To    Phase
	Event Event
}

var transitionsTable = []Transition{
	{From: PhaseAwaitingSetup, To: PhaseInnings1, Event: EventStart},

	{From: PhaseInnings1, To: PhaseInnings2, Event: EventOversExhausted},
	{From: PhaseInnings2, To: PhaseCompleted, Event: EventOversExhausted},

	// Undo steps back across a boundary.
	{From: PhaseCompleted, To: PhaseInnings2, Event: EventRetract},
	{From: PhaseInnings2, To: PhaseInnings1, Event: EventRetract},
}

// Transitions returns a copy of the transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitionsTable))
	copy(out, transitionsTable)
	return out
}

// Phase derives the current phase from the match state.
func (m *Match) Phase() Phase {
	switch {
	case !m.Started():
		return PhaseAwaitingSetup
	case m.Completed:
		return PhaseCompleted
	case m.CurrentInnings == 1:
		return PhaseInnings2
	}
	return PhaseInnings1
}

// Fire applies ev to the match if the table allows it from the current phase.
func Fire(m *Match, ev Event) (Phase, error) {
	from := m.Phase()
	for _, t := range transitionsTable {
		if t.From == from && t.Event == ev {
			enter(m, t.To)
			return t.To, nil
		}
	}
	return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, from)
}

func enter(m *Match, p Phase) {
	switch p {
	case PhaseInnings1:
		m.CurrentInnings = 0
		m.Completed = false
	case PhaseInnings2:
		m.CurrentInnings = 1
		m.Completed = false
	case PhaseCompleted:
		m.Completed = true
	}
}

// Advance runs the completion check after a delivery: once the active
// innings has used its legal-ball quota the match moves on. It reports the
// resulting phase and whether a transition fired. There is no all-out rule.
func Advance(m *Match) (Phase, bool) {
	inn := m.Active()
	if inn == nil || m.Completed {
		return m.Phase(), false
	}
	if inn.LegalBalls < m.Settings.InningsBalls() {
		return m.Phase(), false
	}
	p, err := Fire(m, EventOversExhausted)
	if err != nil {
		return m.Phase(), false
	}
	return p, true
}

// Start decides the batting order and opens the first innings.
func Start(m *Match, battingTeam int) error {
	if m.Started() {
		return ErrAlreadyStarted
	}
	if battingTeam != 0 && battingTeam != 1 {
		return ErrInvalidTeam
	}
	if _, err := Fire(m, EventStart); err != nil {
		return err
	}
	bowlingTeam := 1 - battingTeam
	m.Settings.normalize()
	m.Innings = []Innings{
		NewInnings(battingTeam, bowlingTeam),
		NewInnings(bowlingTeam, battingTeam),
	}
	return nil
}
