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

// ScoreBatRun records n runs off the bat on a legal delivery.
func ScoreBatRun(m *Match, n int) (Delivery, error) {
	if n < 0 || n > MaxRunsPerBall {
		return Delivery{}, ErrInvalidRuns
	}
	return score(m, Delivery{Kind: KindRun, Runs: n})
}

// ScoreLegBye records n leg byes. The striker is charged a ball but no runs.
func ScoreLegBye(m *Match, n int) (Delivery, error) {
	if n < 0 || n > MaxRunsPerBall {
		return Delivery{}, ErrInvalidRuns
	}
	return score(m, Delivery{Kind: KindLegBye, Runs: n})
}

// ScoreWide records a wide: one run and an extra ball.
func ScoreWide(m *Match) (Delivery, error) {
	return score(m, Delivery{Kind: KindWide})
}

// ScoreNoBall records a no-ball with batRuns hit off it. The next legal
// delivery becomes a free hit.
func ScoreNoBall(m *Match, batRuns int) (Delivery, error) {
	if batRuns < 0 || batRuns > MaxRunsPerBall {
		return Delivery{}, ErrInvalidRuns
	}
	return score(m, Delivery{Kind: KindNoBall, BatRuns: batRuns})
}

// ScoreWicket records a dismissal of the striker. It does not check the
// free-hit restriction; callers go through TakeWicket for that.
func ScoreWicket(m *Match, dismissal DismissalType, taker string) (Delivery, error) {
	return score(m, Delivery{Kind: KindWicket, Dismissal: dismissal, Taker: taker})
}

// Scorable returns the active innings if a delivery may be recorded now.
func Scorable(m *Match) (*Innings, error) {
	if !m.Started() {
		return nil, ErrAwaitingSetup
	}
	if m.Completed {
		return nil, ErrMatchComplete
	}
	inn := m.Active()
	if !inn.HasSelections() {
		return nil, ErrSelectionMissing
	}
	return inn, nil
}

func score(m *Match, in Delivery) (Delivery, error) {
	inn, err := Scorable(m)
	if err != nil {
		return Delivery{}, err
	}
	d := apply(inn, in, m.Settings)
	Advance(m)
	return d, nil
}

// apply folds one delivery into an innings and appends it to the ledger.
// It never looks at the match phase; completion is Advance's job.
func apply(inn *Innings, in Delivery, s Settings) Delivery {
	d := in.intent()
	d.Striker = inn.Striker
	d.NonStriker = inn.NonStriker
	d.Bowler = inn.Bowler
	d.FreeHit = inn.FreeHit
	d.IsExtra = d.Kind.IsExtra()
	d.Position, d.ExtraIndex = position(inn, d.Kind)

	switch d.Kind {
	case KindRun:
		inn.TotalRuns += d.Runs
		bat := inn.batter(d.Striker)
		bat.Balls++
		bat.Runs += d.Runs
		countBoundary(bat, d.Runs)
		bowl := inn.bowler(d.Bowler)
		bowl.Balls++
		bowl.Runs += d.Runs
		d.BatterRuns = d.Runs
		d.TotalRuns = d.Runs
	case KindLegBye:
		inn.TotalRuns += d.Runs
		inn.batter(d.Striker).Balls++
		bowl := inn.bowler(d.Bowler)
		bowl.Balls++
		bowl.Runs += d.Runs
		d.TotalRuns = d.Runs
	case KindWide:
		inn.TotalRuns++
		bowl := inn.bowler(d.Bowler)
		bowl.Wides++
		bowl.Runs++
		d.TotalRuns = 1
	case KindNoBall:
		inn.TotalRuns += 1 + d.BatRuns
		inn.FreeHit = true
		bat := inn.batter(d.Striker)
		bat.Runs += d.BatRuns
		countBoundary(bat, d.BatRuns)
		bowl := inn.bowler(d.Bowler)
		bowl.NoBalls++
		bowl.Runs += 1 + d.BatRuns
		d.BatterRuns = d.BatRuns
		d.TotalRuns = 1 + d.BatRuns
	case KindWicket:
		attributeWicket(inn, &d)
	}

	if d.IsExtra {
		inn.ExtraBalls++
	} else {
		inn.LegalBalls++
		inn.PairBalls++
	}

	d.Label = d.Position + " " + d.short()
	inn.Deliveries = append(inn.Deliveries, d)

	if d.swapsStrike() {
		inn.swapStrike()
	}
	if !d.IsExtra {
		inn.FreeHit = false
		rotatePair(inn, s)
	}
	return d
}

func countBoundary(f *BattingFigures, runs int) {
	switch runs {
	case 4:
		f.Fours++
	case 6:
		f.Sixes++
	}
}
