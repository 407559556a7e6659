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
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/c2FmZQ/storage"
)

// DocumentStore persists JSON documents under string keys. Get returns an
// error satisfying os.IsNotExist when the key has never been written.
type DocumentStore interface {
	Get(ctx context.Context, key string, v any) error
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// FileStore keeps each document in its own file, optionally encrypted and
// compressed by the underlying storage.
type FileStore struct {
	DataDir string
	storage *storage.Storage
	mu      sync.Map // key -> *sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string, s *storage.Storage) *FileStore {
	return &FileStore{
		DataDir: dataDir,
		storage: s,
	}
}

func (fs *FileStore) lock(key string) *sync.RWMutex {
	m, _ := fs.mu.LoadOrStore(key, &sync.RWMutex{})
	return m.(*sync.RWMutex)
}

func docFilename(key string) string {
	return filepath.Join("docs", fmt.Sprintf("%s.json", url.PathEscape(key)))
}

// Get reads the document stored under key into v.
func (fs *FileStore) Get(ctx context.Context, key string, v any) error {
	mutex := fs.lock(key)
	mutex.RLock()
	defer mutex.RUnlock()

	if err := fs.storage.ReadDataFile(docFilename(key), v); err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("ReadDataFile: %w", err)
	}
	return nil
}

// Put atomically replaces the document stored under key.
func (fs *FileStore) Put(ctx context.Context, key string, v any) error {
	mutex := fs.lock(key)
	mutex.Lock()
	defer mutex.Unlock()

	if err := fs.storage.SaveDataFile(docFilename(key), v); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// Delete removes the document. Deleting a missing key is not an error.
func (fs *FileStore) Delete(ctx context.Context, key string) error {
	mutex := fs.lock(key)
	mutex.Lock()
	defer mutex.Unlock()

	if err := os.Remove(filepath.Join(fs.DataDir, docFilename(key))); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not remove document: %w", err)
	}
	return nil
}
