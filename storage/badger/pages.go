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
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/querygraph/storage"
)

// GetPage returns the cached page for url or storage.ErrNotFound.
// Expired pages are reported as not found.
func (s *Store) GetPage(ctx context.Context, url string) (*storage.CachedPage, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var page *storage.CachedPage
	err := s.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makePageKey(url))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			page, err = storage.UnmarshalCachedPage(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	// Hash collisions between URLs are possible in principle.
	if page.URL != url {
		return nil, storage.ErrNotFound
	}
	return page, nil
}

// PutPage caches the extracted text of url.
func (s *Store) PutPage(ctx context.Context, url, content string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	page := &storage.CachedPage{URL: url, Content: content, FetchedAt: time.Now().UTC()}
	return s.backend.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makePageKey(url), storage.MarshalCachedPage(page))
		if s.pageTTL > 0 {
			entry = entry.WithTTL(s.pageTTL)
		}
		return tx.SetEntry(entry)
	})
}
