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

// readfile dumps the stored documents of a data directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/JayGriffiths12/piss-up-cup-score/backend"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/export"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

var (
	dataDir = flag.String("data-dir", "data", "Directory for match, history and career data")
	csvOut  = flag.Bool("csv", false, "Print the career store as CSV instead of JSON")
)

func main() {
	flag.Parse()
	store, _, err := backend.OpenStorage(*dataDir, os.Getenv(backend.MasterKeyEnv))
	if err != nil {
		log.Fatal(err)
	}
	docs := backend.NewFileStore(*dataDir, store)
	ctx := context.Background()

	if *csvOut {
		var records career.Records
		if err := docs.Get(ctx, backend.KeyCareer, &records); err != nil {
			log.Fatalf("%s: %v", backend.KeyCareer, err)
		}
		if err := export.WriteCareerCSV(os.Stdout, records); err != nil {
			log.Fatal(err)
		}
		return
	}

	keys := flag.Args()
	if len(keys) == 0 {
		keys = []string{backend.KeyCurrentMatch, backend.KeyHistory, backend.KeyCareer}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, key := range keys {
		var obj any
		switch key {
		case backend.KeyCurrentMatch:
			obj = new(scoring.Match)
		case backend.KeyHistory:
			obj = new([]backend.HistoryEntry)
		case backend.KeyCareer:
			obj = new(career.Records)
		default:
			obj = new(json.RawMessage)
		}
		if err := docs.Get(ctx, key, obj); err != nil {
			log.Printf("%s: %v", key, err)
			continue
		}
		fmt.Printf("=========== %s ===========\n", key)
		if err := enc.Encode(obj); err != nil {
			log.Printf("JSON: %s: %v", key, err)
		}
	}
}
