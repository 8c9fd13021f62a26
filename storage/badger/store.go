// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/querygraph/storage"
)

// Store implements storage.Store on a single BadgerDB backend.
type Store struct {
	backend *Backend
	pageTTL time.Duration
	logger  *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithPageTTL expires cached pages after ttl. Zero keeps them forever.
func WithPageTTL(ttl time.Duration) Option {
	return func(s *Store) error {
		if ttl < 0 {
			return fmt.Errorf("%w: negative page TTL %s", storage.ErrInvalidOption, ttl)
		}
		s.pageTTL = ttl
		return nil
	}
}

// WithLogger sets a custom logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// NewStore opens (or creates) a store in the directory at path.
//
// Returns storage.Store interface to enforce abstraction.
func NewStore(path string, opts ...Option) (storage.Store, error) {
	return newStore(path, false, opts...)
}

// NewMemoryStore creates an in-memory store, mainly for tests.
func NewMemoryStore(opts ...Option) (storage.Store, error) {
	return newStore("", true, opts...)
}

func newStore(path string, inMemory bool, opts ...Option) (*Store, error) {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	backend, err := OpenBackend(path, inMemory, s.logger)
	if err != nil {
		return nil, err
	}
	s.backend = backend
	s.logger = s.logger.With("component", "store")
	return s, nil
}

// Close compacts the value log and closes the underlying database.
func (s *Store) Close() error {
	if s.backend.IsClosed() {
		return nil
	}
	if err := s.backend.CollectGarbage(); err != nil {
		s.logger.Warn("value log GC failed", "error", err)
	}
	return s.backend.Close()
}

func (s *Store) checkOpen() error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}
