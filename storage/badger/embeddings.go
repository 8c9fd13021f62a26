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

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/querygraph/storage"
)

// GetEmbeddings returns the cached vector for each text, nil on a miss.
func (s *Store) GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	err := s.backend.View(func(tx *badger.Txn) error {
		for i, text := range texts {
			item, err := tx.Get(makeEmbeddingKey(model, text))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				vec, err := storage.UnmarshalVector(val)
				out[i] = vec
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// PutEmbeddings caches vectors[i] for texts[i]. A batch too large for one
// transaction is split across several.
func (s *Store) PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(texts) != len(vectors) {
		return storage.ErrLengthMismatch
	}
	wb := s.backend.db.NewWriteBatch()
	defer wb.Cancel()
	for i, text := range texts {
		if vectors[i] == nil {
			continue
		}
		if err := wb.Set(makeEmbeddingKey(model, text), storage.MarshalVector(vectors[i])); err != nil {
			return err
		}
	}
	return wb.Flush()
}
