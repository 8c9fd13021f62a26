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

package websearch

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/querygraph/core"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of searches in flight.
const DefaultConcurrency = 4

// Collect runs every query against searcher, asking for perQuery results
// each, and returns one record per distinct URL sorted by URL. The first
// failed search cancels the rest and its error is returned.
func Collect(ctx context.Context, searcher Searcher, queries []core.SearchQuery, perQuery, concurrency int) ([]*core.URLRecord, error) {
	if len(queries) == 0 || perQuery <= 0 {
		return []*core.URLRecord{}, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	records := make(map[string]*core.URLRecord)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, q := range queries {
		g.Go(func() error {
			results, err := searcher.Search(ctx, string(q), perQuery)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, r := range results {
				if r.URL == "" {
					continue
				}
				rec, ok := records[r.URL]
				if !ok {
					rec = &core.URLRecord{URL: r.URL, Queries: make(map[core.SearchQuery]struct{})}
					records[r.URL] = rec
				}
				rec.Queries[q] = struct{}{}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*core.URLRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b *core.URLRecord) int {
		return strings.Compare(a.URL, b.URL)
	})
	return out, nil
}
