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

import (
	"fmt"
	"strconv"
)

// Kind discriminates the delivery variants.
type Kind string

// Delivery kinds.
const (
	KindRun    Kind = "run"
	KindLegBye Kind = "legbye"
	KindWide   Kind = "wide"
	KindNoBall Kind = "noball"
	KindWicket Kind = "wicket"
)

// IsExtra reports whether deliveries of this kind fall outside the over quota.
func (k Kind) IsExtra() bool {
	return k == KindWide || k == KindNoBall
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRun, KindLegBye, KindWide, KindNoBall, KindWicket:
		return true
	}
	return false
}

// Delivery is one immutable ledger entry. Kind selects which payload fields
// are meaningful: Runs for run and legbye, BatRuns for noball, Dismissal and
// Taker for wicket. The remaining fields are derived when the delivery is
// applied and are never edited afterwards.
type Delivery struct {
	Kind Kind `json:"type"`

	Runs      int           `json:"runs,omitempty"`
	BatRuns   int           `json:"batRuns,omitempty"`
	Dismissal DismissalType `json:"wktType,omitempty"`
	Taker     string        `json:"taker,omitempty"`

	BatterRuns int    `json:"batterRuns"`
	TotalRuns  int    `json:"totalRuns"`
	IsExtra    bool   `json:"isExtra"`
	ExtraIndex int    `json:"extraIndex,omitempty"`
	FreeHit    bool   `json:"freeHit"`
	Position   string `json:"overBall"`
	Label      string `json:"label"`

	// Selections in force when the ball was bowled.
	Striker    string `json:"striker"`
	NonStriker string `json:"nonStriker"`
	Bowler     string `json:"bowler"`
}

// intent strips a delivery back to its kind and payload.
func (d Delivery) intent() Delivery {
	return Delivery{
		Kind:      d.Kind,
		Runs:      d.Runs,
		BatRuns:   d.BatRuns,
		Dismissal: d.Dismissal,
		Taker:     d.Taker,
	}
}

func (d Delivery) short() string {
	fh := ""
	if d.FreeHit {
		fh = " (FH)"
	}
	switch d.Kind {
	case KindRun:
		return strconv.Itoa(d.Runs) + fh
	case KindLegBye:
		return "LB" + strconv.Itoa(d.Runs) + fh
	case KindWide:
		return "Wd+1"
	case KindNoBall:
		return fmt.Sprintf("Nb+1 +%dbat", d.BatRuns)
	case KindWicket:
		return fmt.Sprintf("Wkt(%s) -%d", d.Dismissal, WicketPenalty)
	}
	return string(d.Kind)
}

// swapsStrike reports whether the batters cross on this delivery.
func (d Delivery) swapsStrike() bool {
	switch d.Kind {
	case KindRun, KindLegBye:
		return d.Runs%2 == 1
	case KindNoBall:
		return d.BatRuns%2 == 1
	}
	return false
}

// nextExtraIndex counts consecutive extras since the last legal delivery.
func nextExtraIndex(inn *Innings) int {
	if last, ok := inn.LastDelivery(); ok && last.IsExtra {
		return last.ExtraIndex + 1
	}
	return 1
}

// position labels a delivery about to be bowled: "o.b" for the next legal
// ball, "o.b+k" for the k-th extra at the current slot.
func position(inn *Innings, k Kind) (label string, extraIndex int) {
	if k.IsExtra() {
		extraIndex = nextExtraIndex(inn)
		return fmt.Sprintf("%d.%d+%d", inn.Over(), inn.BallInOver(), extraIndex), extraIndex
	}
	return fmt.Sprintf("%d.%d", inn.Over(), inn.BallInOver()+1), 0
}
