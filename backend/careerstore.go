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
	"log"
	"os"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
)

// CareerStore is the career.Store backed by a DocumentStore.
type CareerStore struct {
	docs DocumentStore
}

// NewCareerStore creates a CareerStore on top of docs.
func NewCareerStore(docs DocumentStore) *CareerStore {
	return &CareerStore{docs: docs}
}

// Load returns the career records. Unreadable data yields an empty store.
func (cs *CareerStore) Load(ctx context.Context) (career.Records, error) {
	var records career.Records
	if err := cs.docs.Get(ctx, KeyCareer, &records); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[STORE] Warning: could not read career store, treating it as empty: %v", err)
		}
		return make(career.Records), nil
	}
	if records == nil {
		records = make(career.Records)
	}
	for key, rec := range records {
		if rec == nil {
			delete(records, key)
			continue
		}
		if rec.Name == "" {
			rec.Name = key
		}
	}
	return records, nil
}

// Save replaces the career records.
func (cs *CareerStore) Save(ctx context.Context, r career.Records) error {
	return cs.docs.Put(ctx, KeyCareer, r)
}
