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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

var (
	// ErrBusy is returned when the session queue is full.
	ErrBusy = errors.New("session busy, retry")
	// ErrInvalidAction wraps payloads that cannot be decoded.
	ErrInvalidAction = errors.New("invalid action")
)

// Session request types
const (
	reqAction   = "ACTION"
	reqSnapshot = "SNAPSHOT"
	reqJoin     = "JOIN"
)

type sessionRequest struct {
	Type   string
	Action BaseAction
	UserId string
	Client *wsClient
	Reply  chan sessionResponse
}

type sessionResponse struct {
	Result ActionResult
	Match  *scoring.Match
	Error  error
}

// ActionResult is what an applied action reports back to the scorer.
type ActionResult struct {
	Status     string              `json:"status"`
	Delivery   *scoring.Delivery   `json:"delivery,omitempty"`
	Scoreboard *scoring.Scoreboard `json:"scoreboard,omitempty"`
}

// Action result statuses.
const (
	StatusApplied   = "applied"
	StatusDuplicate = "duplicate"
)

// Session owns the one live match. Every mutation runs on the session
// goroutine, so there is never more than one in flight.
type Session struct {
	requests   chan sessionRequest
	register   chan *wsClient
	unregister chan *wsClient
	clients    map[*wsClient]bool

	loaded bool
	match  *scoring.Match
	recent []string

	matches   *MatchStore
	history   *HistoryStore
	careers   *career.Aggregator
	finalizer *Finalizer
	metrics   *Metrics

	debugf func(string, ...any)
	now    func() time.Time
	newID  func() string
}

// NewSession wires a session to its stores. Call Run to start it.
func NewSession(docs DocumentStore, metrics *Metrics, debugf func(string, ...any)) *Session {
	if debugf == nil {
		debugf = func(string, ...any) {}
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	matches := NewMatchStore(docs)
	history := NewHistoryStore(docs)
	careers := career.NewAggregator(NewCareerStore(docs))
	return &Session{
		requests:   make(chan sessionRequest, 16),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		clients:    make(map[*wsClient]bool),
		matches:    matches,
		history:    history,
		careers:    careers,
		finalizer:  NewFinalizer(matches, history, careers),
		metrics:    metrics,
		debugf:     debugf,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// History returns the history store.
func (s *Session) History() *HistoryStore { return s.history }

// Careers returns the career aggregator.
func (s *Session) Careers() *career.Aggregator { return s.careers }

// Run processes requests until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer func() {
		for client := range s.clients {
			delete(s.clients, client)
			close(client.send)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.register:
			s.clients[client] = true
			s.metrics.spectators.Inc()
		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.metrics.spectators.Dec()
			}
		case req := <-s.requests:
			s.ensureLoaded(ctx)
			switch req.Type {
			case reqAction:
				start := time.Now()
				res, err := s.handleAction(ctx, req.Action, req.UserId)
				result := "ok"
				if err != nil {
					result = "rejected"
				}
				s.metrics.observeAction(req.Action.Type, result, time.Since(start))
				req.Reply <- sessionResponse{Result: res, Error: err}
			case reqSnapshot:
				if s.match == nil {
					req.Reply <- sessionResponse{Error: ErrNoMatch}
					continue
				}
				m, err := cloneMatch(s.match)
				req.Reply <- sessionResponse{Match: m, Error: err}
			case reqJoin:
				if req.Client != nil && s.clients[req.Client] {
					s.handleJoin(req.Client)
				}
			}
		}
	}
}

func (s *Session) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	m, err := s.matches.Load(ctx)
	if err != nil {
		s.debugf("No current match to resume: %v", err)
		return
	}
	s.match = m
	s.debugf("Resumed match %s in phase %s", m.ID, m.Phase())
}

func (s *Session) send(ctx context.Context, req sessionRequest) (sessionResponse, error) {
	req.Reply = make(chan sessionResponse, 1)
	select {
	case s.requests <- req:
	default:
		return sessionResponse{}, ErrBusy
	}
	select {
	case resp := <-req.Reply:
		return resp, resp.Error
	case <-ctx.Done():
		return sessionResponse{}, ctx.Err()
	}
}

// Do applies one validated action. An action whose ID was seen recently is
// acknowledged without being applied again.
func (s *Session) Do(ctx context.Context, action BaseAction, userId string) (ActionResult, error) {
	resp, err := s.send(ctx, sessionRequest{Type: reqAction, Action: action, UserId: userId})
	return resp.Result, err
}

// Snapshot returns a copy of the current match.
func (s *Session) Snapshot(ctx context.Context) (*scoring.Match, error) {
	resp, err := s.send(ctx, sessionRequest{Type: reqSnapshot})
	return resp.Match, err
}

func (s *Session) scoreboard() *scoring.Scoreboard {
	if s.match == nil {
		return nil
	}
	sb := s.match.Scoreboard()
	return &sb
}

func (s *Session) handleAction(ctx context.Context, action BaseAction, userId string) (ActionResult, error) {
	if seenAction(s.recent, action.ID) {
		s.debugf("Duplicate action %s from %s", action.ID, maskEmail(userId))
		return ActionResult{Status: StatusDuplicate, Scoreboard: s.scoreboard()}, nil
	}

	var next *scoring.Match
	switch action.Type {
	case ActionNewMatch:
		next = scoring.NewMatch(s.newID(), s.now())
	case ActionClearMatch:
		if err := s.matches.Clear(ctx); err != nil {
			log.Printf("[SESSION] Failed to clear current match: %v", err)
		}
		s.match = nil
	case ActionResetCareer:
		if err := s.careers.Reset(ctx); err != nil {
			return ActionResult{}, fmt.Errorf("reset career: %w", err)
		}
	default:
		if s.match == nil {
			return ActionResult{}, ErrNoMatch
		}
		var err error
		if next, err = cloneMatch(s.match); err != nil {
			return ActionResult{}, err
		}
	}

	res := ActionResult{Status: StatusApplied}
	persist := next != nil
	if next != nil && action.Type != ActionNewMatch {
		d, err := s.applyToMatch(ctx, next, action)
		if err != nil {
			return ActionResult{}, err
		}
		if d != nil {
			res.Delivery = d
			if action.Type != ActionUndo {
				s.metrics.observeDelivery(string(d.Kind))
			}
		}
		persist = action.Type != ActionFinalize
	}
	if next != nil {
		s.match = next
	}
	if persist {
		if err := s.matches.Save(ctx, s.match); err != nil {
			log.Printf("[SESSION] Failed to persist match %s: %v", s.match.ID, err)
		}
	}

	s.recent = rememberAction(s.recent, action.ID)
	s.debugf("Applied %s (%s) from %s", action.Type, action.ID, maskEmail(userId))

	res.Scoreboard = s.scoreboard()
	s.broadcast(Message{Type: MsgTypeScoreboard, Scoreboard: res.Scoreboard})
	return res, nil
}

// applyToMatch runs a match-scoped action against m. It returns the recorded
// or retracted delivery, if any.
func (s *Session) applyToMatch(ctx context.Context, m *scoring.Match, action BaseAction) (*scoring.Delivery, error) {
	decode := func(v any) error {
		if err := decodePayload(action.Payload, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAction, action.Type, err)
		}
		return nil
	}
	var (
		d   scoring.Delivery
		err error
	)
	switch action.Type {
	case ActionMatchSetup:
		var p SetupPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		var teams [2]scoring.TeamSetup
		for i, t := range p.Teams {
			players := t.Players
			if t.PlayersText != "" {
				players = scoring.ParsePlayers(t.PlayersText)
			}
			teams[i] = scoring.TeamSetup{Name: t.Name, Players: players}
		}
		// Omitted settings keep their current values.
		settings := m.Settings
		if len(p.Settings) > 0 {
			if err := json.Unmarshal(p.Settings, &settings); err != nil {
				return nil, fmt.Errorf("%w: %s: settings: %v", ErrInvalidAction, action.Type, err)
			}
		}
		return nil, scoring.Setup(m, teams, settings)
	case ActionMatchStart:
		var p StartPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, scoring.Start(m, p.BattingTeam)
	case ActionSelectBatters:
		var p SelectBattersPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, scoring.SelectBatters(m, p.Striker, p.NonStriker)
	case ActionSelectBowler:
		var p SelectBowlerPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, scoring.SelectBowler(m, p.Bowler)
	case ActionScoreRun:
		var p RunsPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		d, err = scoring.ScoreBatRun(m, p.Runs)
	case ActionScoreLegBye:
		var p RunsPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		d, err = scoring.ScoreLegBye(m, p.Runs)
	case ActionScoreWide:
		d, err = scoring.ScoreWide(m)
	case ActionScoreNoBall:
		var p NoBallPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		d, err = scoring.ScoreNoBall(m, p.BatRuns)
	case ActionScoreWicket:
		var p WicketPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		dismissal, perr := scoring.ParseDismissal(p.Dismissal)
		if perr != nil {
			return nil, perr
		}
		d, err = scoring.TakeWicket(m, dismissal, p.Taker)
	case ActionUndo:
		d, err = scoring.Retract(m)
	case ActionSetBonusRuns:
		var p BonusRunsPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, scoring.SetBonusRuns(m, p.Team, p.Runs)
	case ActionFinalize:
		var p FinalizePayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		if err := s.finalizer.Finalize(ctx, m, p.Confirm); err != nil {
			return nil, err
		}
		s.metrics.finalizations.Inc()
		log.Printf("[SESSION] Finalized match %s", m.ID)
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidAction, action.Type)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Session) handleJoin(c *wsClient) {
	sb := s.scoreboard()
	if sb == nil {
		c.sendJSON(Message{Type: MsgTypeAck})
		return
	}
	c.sendJSON(Message{Type: MsgTypeScoreboard, Scoreboard: sb})
}

func (s *Session) broadcast(msg Message) {
	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(s.clients, client)
			s.metrics.spectators.Dec()
		}
	}
}

// cloneMatch deep-copies m so a failed action leaves the live match untouched.
func cloneMatch(m *scoring.Match) (*scoring.Match, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("clone match: %w", err)
	}
	var c scoring.Match
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("clone match: %w", err)
	}
	c.Normalize()
	return &c, nil
}
