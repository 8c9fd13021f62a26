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
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/rank"
	"github.com/poiesic/querygraph/storage"
)

// SaveReport stores a report, its index entry and its date index key.
// Saving a report again replaces the previous version.
func (s *Store) SaveReport(ctx context.Context, report *core.Report) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := core.ValidateReport(report); err != nil {
		return err
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	return s.backend.Update(func(tx *badger.Txn) error {
		old, err := readReportIndex(tx, report.ID)
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeReportDateKey(old.Summary.CreatedAt, report.ID)); err != nil {
				return err
			}
		}

		if err := tx.Set(makeReportKey(report.ID), storage.MarshalReport(report)); err != nil {
			return err
		}
		idx := &storage.ReportIndex{Summary: report.Summary(), QueryVector: report.QueryVector}
		if err := tx.Set(makeReportIndexKey(report.ID), storage.MarshalReportIndex(idx)); err != nil {
			return err
		}
		return tx.Set(makeReportDateKey(report.CreatedAt, report.ID), []byte(report.ID))
	})
}

// GetReport retrieves a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (*core.Report, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var report *core.Report
	err := s.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeReportKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			report, err = storage.UnmarshalReport(val)
			return err
		})
	})
	return report, err
}

// ListReports returns up to limit summaries, most recent first.
// A limit of zero or less returns every report.
func (s *Store) ListReports(ctx context.Context, limit int) ([]*core.ReportSummary, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var results []*core.ReportSummary
	err := s.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(reportDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefixEnd(reportDatePrefix)); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			id, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			idx, err := readReportIndex(tx, string(id))
			if err != nil {
				return err
			}
			if idx != nil {
				results = append(results, idx.Summary)
			}
		}
		return nil
	})
	return results, err
}

// FindSimilarReports scores every archived report's query vector against vector.
func (s *Store) FindSimilarReports(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ReportMatch, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.ReportMatch
	err := s.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportIndexPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var idx *storage.ReportIndex
			err := iter.Item().Value(func(val []byte) error {
				var err error
				idx, err = storage.UnmarshalReportIndex(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip reports without embeddings
			if len(idx.QueryVector) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			score := float32(rank.Dot(vector, idx.QueryVector))
			if score >= minSimilarity {
				results = append(results, &core.ReportMatch{Summary: idx.Summary, Score: score})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.ReportMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteReport removes a report and its index entries.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.backend.Update(func(tx *badger.Txn) error {
		idx, err := readReportIndex(tx, id)
		if err != nil {
			return err
		}
		if idx == nil {
			return storage.ErrNotFound
		}
		for _, key := range [][]byte{
			makeReportKey(id),
			makeReportIndexKey(id),
			makeReportDateKey(idx.Summary.CreatedAt, id),
		} {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// readReportIndex reads a report's index entry. Returns nil, nil if absent.
func readReportIndex(tx *badger.Txn, id string) (*storage.ReportIndex, error) {
	item, err := tx.Get(makeReportIndexKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var idx *storage.ReportIndex
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		idx, unmarshalErr = storage.UnmarshalReportIndex(val)
		return unmarshalErr
	})
	return idx, err
}
