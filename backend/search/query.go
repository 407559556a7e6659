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

// Package search parses the history search box: free words plus key:value
// filters such as team:"Red Dirt", date:2026-03..2026-04 or is:tie.
package search

import (
	"strings"
	"unicode"
)

// Operator defines the type of comparison for a filter.
type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpRange          Operator = ".."
)

// prefixOps is checked in order, so two-character operators come first.
var prefixOps = []Operator{OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess}

// Filter is one key:value criterion.
type Filter struct {
	Key      string
	Value    string
	MaxValue string // OpRange only
	Operator Operator
}

// Query is a parsed search string.
type Query struct {
	Filters  []Filter
	FreeText []string
}

// Empty reports whether the query matches everything.
func (q Query) Empty() bool {
	return len(q.Filters) == 0 && len(q.FreeText) == 0
}

// Parse splits input into filters and free text. A token is a filter when
// it has a non-empty key and value around its first colon; a further
// unquoted colon in the value makes it free text.
func Parse(input string) Query {
	q := Query{Filters: []Filter{}, FreeText: []string{}}
	for _, token := range tokenize(input) {
		f, ok := parseFilter(token)
		if !ok {
			q.FreeText = append(q.FreeText, unquote(token))
			continue
		}
		q.Filters = append(q.Filters, f)
	}
	return q
}

func parseFilter(token string) (Filter, bool) {
	key, val, found := strings.Cut(token, ":")
	key = strings.ToLower(strings.TrimSpace(key))
	val = strings.TrimSpace(val)
	if !found || key == "" || val == "" || strings.HasPrefix(key, `"`) || strings.HasPrefix(key, "'") {
		return Filter{}, false
	}
	if isQuoted(val) {
		return Filter{Key: key, Value: unquote(val), Operator: OpEqual}, true
	}
	if strings.Contains(val, ":") {
		return Filter{}, false
	}
	if lo, hi, ok := strings.Cut(val, ".."); ok {
		return Filter{Key: key, Value: lo, MaxValue: hi, Operator: OpRange}, true
	}
	for _, op := range prefixOps {
		if rest, ok := strings.CutPrefix(val, string(op)); ok {
			return Filter{Key: key, Value: unquote(rest), Operator: op}, true
		}
	}
	return Filter{Key: key, Value: val, Operator: OpEqual}, true
}

// Matches compares s against the filter lexically, which orders ISO dates
// correctly. Equality and range upper bounds also accept prefixes, so
// date:2026-03 matches any day in March.
func (f Filter) Matches(s string) bool {
	switch f.Operator {
	case OpEqual:
		return strings.HasPrefix(s, f.Value)
	case OpGreater:
		return s > f.Value && !strings.HasPrefix(s, f.Value)
	case OpGreaterOrEqual:
		return s >= f.Value
	case OpLess:
		return s < f.Value
	case OpLessOrEqual:
		return s <= f.Value || strings.HasPrefix(s, f.Value)
	case OpRange:
		return (f.Value == "" || s >= f.Value) && (f.MaxValue == "" || s <= f.MaxValue || strings.HasPrefix(s, f.MaxValue))
	}
	return false
}

// tokenize splits on whitespace outside quotes. Quotes stay in the token.
func tokenize(input string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
	)
	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
