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

import "strings"

// DismissalType names how a batter was out.
type DismissalType string

// Dismissal types.
const (
	Caught      DismissalType = "Caught"
	Bowled      DismissalType = "Bowled"
	LBW         DismissalType = "LBW"
	Stumped     DismissalType = "Stumped"
	RunOut      DismissalType = "Run Out"
	HitWicket   DismissalType = "Hit Wicket"
	Obstructing DismissalType = "Obstructing the Field"
	TimedOut    DismissalType = "Timed Out"
	HandledBall DismissalType = "Handled the Ball"
)

// Dismissals lists every dismissal type in picker order.
var Dismissals = []DismissalType{
	Caught, Bowled, LBW, Stumped, RunOut, HitWicket, Obstructing, TimedOut, HandledBall,
}

var dismissalAliases = map[string]DismissalType{
	"obstructing":  Obstructing,
	"handled ball": HandledBall,
	"runout":       RunOut,
	"run-out":      RunOut,
	"hitwicket":    HitWicket,
}

// ParseDismissal resolves a dismissal name case-insensitively, including the
// short forms used by older snapshots ("Obstructing", "Handled Ball").
func ParseDismissal(s string) (DismissalType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Dismissals {
		if strings.ToLower(string(d)) == key {
			return d, nil
		}
	}
	if d, ok := dismissalAliases[key]; ok {
		return d, nil
	}
	return "", ErrUnknownDismissal
}

// Valid reports whether d is a known dismissal type.
func (d DismissalType) Valid() bool {
	for _, v := range Dismissals {
		if v == d {
			return true
		}
	}
	return false
}

// CreditsBowler reports whether the bowler of record is credited the wicket.
func (d DismissalType) CreditsBowler() bool {
	return d != RunOut
}

// DefaultTaker suggests who to pre-select as taker: the bowler for dismissals
// the bowler effects alone, nobody otherwise.
func DefaultTaker(d DismissalType, bowler string) string {
	switch d {
	case Bowled, LBW, HitWicket:
		return bowler
	}
	return ""
}

// attributeWicket applies the credit rules for a dismissal. The legal-ball
// bookkeeping shared with other deliveries is done by the caller.
func attributeWicket(inn *Innings, d *Delivery) {
	inn.TotalRuns -= WicketPenalty
	inn.Wickets++

	bat := inn.batter(d.Striker)
	bat.Balls++
	bat.Outs++

	bowl := inn.bowler(d.Bowler)
	bowl.Balls++
	if d.Dismissal.CreditsBowler() {
		bowl.Wickets++
	}

	if d.Taker != "" {
		f := inn.fielder(d.Taker)
		f.Wickets++
		switch d.Dismissal {
		case RunOut:
			f.RunOuts++
		case Caught:
			f.Catches++
		case Stumped:
			f.Stumpings++
		}
	}

	inn.WicketLog = append(inn.WicketLog, WicketLogEntry{
		Position:  d.Position,
		Dismissal: d.Dismissal,
		Taker:     d.Taker,
		Batter:    d.Striker,
		Bowler:    d.Bowler,
	})
	d.TotalRuns = -WicketPenalty
}
