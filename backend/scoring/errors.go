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

import "errors"

// Rule violations. Every operation that returns one of these has left the
// match untouched.
var (
	// ErrSelectionMissing is returned when striker, non-striker or bowler is unset.
	ErrSelectionMissing = errors.New("striker, non-striker and bowler must be selected")
	// ErrRosterEmpty is returned when selecting from a team with no players.
	ErrRosterEmpty = errors.New("team roster is empty")
	// ErrMatchComplete is returned when scoring after both innings have finished.
	ErrMatchComplete = errors.New("match is complete")
	// ErrAwaitingSetup is returned when scoring before the batting order is decided.
	ErrAwaitingSetup = errors.New("match has not started")
	// ErrAlreadyStarted is returned when changing setup after the toss.
	ErrAlreadyStarted = errors.New("match has already started")
	// ErrInvalidRuns is returned for a run count outside 0..6.
	ErrInvalidRuns = errors.New("runs must be between 0 and 6")
	// ErrInvalidTeam is returned for a team index other than 0 or 1.
	ErrInvalidTeam = errors.New("team index must be 0 or 1")
	// ErrUnknownPlayer is returned when a name is not on the relevant roster.
	ErrUnknownPlayer = errors.New("player is not on the roster")
	// ErrSamePlayer is returned when striker and non-striker are the same name.
	ErrSamePlayer = errors.New("striker and non-striker must differ")
	// ErrFreeHitDismissal is returned for any dismissal other than Run Out on a free hit.
	ErrFreeHitDismissal = errors.New("only Run Out is allowed on a free hit")
	// ErrUnknownDismissal is returned for an unrecognised dismissal type.
	ErrUnknownDismissal = errors.New("unknown dismissal type")
	// ErrNothingToUndo is returned when no delivery has been recorded.
	ErrNothingToUndo = errors.New("no delivery to undo")
	// ErrInvalidTransition is returned when an event is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid match transition")
)
