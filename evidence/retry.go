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


package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Backoff is a bounded exponential retry schedule: the wait before try n+1
// is Delay·2^(n-1), capped at MaxDelay when MaxDelay is positive.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultBackoff is used for embedding batches.
var DefaultBackoff = Backoff{
	Attempts: DefaultRetryAttempts,
	Delay:    DefaultRetryDelay,
	MaxDelay: 5 * time.Second,
}

func (b Backoff) wait(try int) time.Duration {
	d := b.Delay << (try - 1)
	if d < 0 || (b.MaxDelay > 0 && d > b.MaxDelay) {
		return b.MaxDelay
	}
	return d
}

// Retry calls op until it succeeds, the schedule is exhausted or ctx ends.
// The final failure is wrapped with the number of tries made.
func Retry[T any](ctx context.Context, b Backoff, logger *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if b.Attempts < 1 {
		return zero, ErrInvalidMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}

	for try := 1; ; try++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := op(ctx)
		if err == nil {
			if try > 1 {
				logger.Debug("succeeded after retry", "try", try)
			}
			return v, nil
		}
		if try == b.Attempts {
			return zero, fmt.Errorf("after %d tries: %w", try, err)
		}
		logger.Debug("try failed", "try", try, "of", b.Attempts, "error", err)

		timer := time.NewTimer(b.wait(try))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
