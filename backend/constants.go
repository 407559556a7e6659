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

// Document keys.
const (
	KeyCurrentMatch = "match/current"
	KeyHistory      = "match/history"
	KeyCareer       = "career/store"
)

// Spectator feed message types.
const (
	MsgTypeJoin       = "JOIN"
	MsgTypeAck        = "ACK"
	MsgTypeScoreboard = "SCOREBOARD"
	MsgTypeError      = "ERROR"
	MsgTypePing       = "PING"
	MsgTypePong       = "PONG"
)

const (
	CurrentAppVersion = "0.1.0"

	// maxRecentActions bounds the idempotency window for action IDs.
	maxRecentActions = 100

	// maxActionBody caps the size of a posted action.
	maxActionBody = 64 * 1024

	defaultAuthCookieName = "puc_auth"
	mockAuthCookieName    = "mock_auth_user"
)
