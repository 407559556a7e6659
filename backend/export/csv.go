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

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

// CareerHeader is the header row of the career CSV.
var CareerHeader = []string{
	"Player", "Matches", "BatInns", "BatRuns", "BatBalls", "4s", "6s", "Outs",
	"BowlBalls", "BowlOvers", "BowlRuns", "BowlWkts", "Wd", "Nb",
	"FieldWkts", "Catches", "RunOuts", "Stumpings",
}

const bowlOversColumn = 9

// ErrBadHeader is returned when a career CSV does not start with CareerHeader.
var ErrBadHeader = errors.New("unexpected career csv header")

// WriteCareerCSV writes one row per player, sorted by name.
func WriteCareerCSV(w io.Writer, records career.Records) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CareerHeader); err != nil {
		return err
	}
	for _, r := range records.Sorted() {
		if err := cw.Write(careerRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func careerRow(r career.Record) []string {
	row := []string{r.Name}
	for i, n := range counters(&r.Totals) {
		if i == bowlOversColumn-1 {
			row = append(row, scoring.OversString(r.BowlBalls))
		}
		row = append(row, strconv.Itoa(*n))
	}
	return row
}

// counters lists the numeric columns in CSV order, without BowlOvers.
func counters(t *career.Totals) []*int {
	return []*int{
		&t.Matches,
		&t.BatInnings, &t.BatRuns, &t.BatBalls, &t.BatFours, &t.BatSixes, &t.BatOuts,
		&t.BowlBalls, &t.BowlRuns, &t.BowlWickets, &t.BowlWides, &t.BowlNoBalls,
		&t.FieldWickets, &t.FieldCatches, &t.FieldRunOuts, &t.FieldStumpings,
	}
}

// ReadCareerCSV parses a file written by WriteCareerCSV. The derived
// BowlOvers column is ignored.
func ReadCareerCSV(r io.Reader) (career.Records, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CareerHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, CareerHeader) {
		return nil, ErrBadHeader
	}

	out := make(career.Records)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		key := career.Key(row[0])
		if key == "" {
			continue
		}
		rec := &career.Record{Name: key}
		cols := slices.Delete(slices.Clone(row[1:]), bowlOversColumn-1, bowlOversColumn)
		for i, n := range counters(&rec.Totals) {
			v, err := strconv.Atoi(cols[i])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, columnName(i), err)
			}
			*n = v
		}
		out[key] = rec
	}
	return out, nil
}

func columnName(counter int) string {
	col := counter + 1
	if col >= bowlOversColumn {
		col++
	}
	return CareerHeader[col]
}
