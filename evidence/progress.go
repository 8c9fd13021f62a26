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
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress is a snapshot of a run's page processing.
type Progress struct {
	Total       int
	Pages       int
	WithContent int
	Sentences   int
	Elapsed     time.Duration
}

// ProgressTracker counts finished pages and redraws a single status line
// on its writer every few pages. It is safe for concurrent use.
type ProgressTracker struct {
	mu      sync.Mutex
	w       io.Writer
	every   int
	drawnAt int
	running bool
	started time.Time
	state   Progress
}

// NewProgressTracker draws to w after every `every` pages. A nil writer
// only counts.
func NewProgressTracker(w io.Writer, every int) *ProgressTracker {
	return &ProgressTracker{w: w, every: max(every, 1)}
}

// Start resets the tracker for a run over total pages.
func (p *ProgressTracker) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Progress{Total: total}
	p.started = time.Now()
	p.drawnAt = 0
	p.running = true
}

// PageDone records a finished page and the number of sentences scored on
// it. Calls outside Start/Finish are ignored.
func (p *ProgressTracker) PageDone(hasContent bool, sentences int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.state.Pages = min(p.state.Pages+1, p.state.Total)
	p.state.Sentences += sentences
	if hasContent {
		p.state.WithContent++
	}
	if p.state.Pages-p.drawnAt >= p.every {
		p.draw()
		p.drawnAt = p.state.Pages
	}
}

// Finish draws the final line and ends it with a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.state.Elapsed = time.Since(p.started)
	p.draw()
	if p.w != nil {
		fmt.Fprintln(p.w)
	}
	p.running = false
}

// Snapshot returns the current counts.
func (p *ProgressTracker) Snapshot() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	if p.running {
		s.Elapsed = time.Since(p.started)
	}
	return s
}

// draw requires p.mu.
func (p *ProgressTracker) draw() {
	if p.w == nil {
		return
	}
	pct := 0.0
	if p.state.Total > 0 {
		pct = 100 * float64(p.state.Pages) / float64(p.state.Total)
	}
	fmt.Fprintf(p.w, "\rPages: %d/%d (%.1f%%), %d with content, %d sentences",
		p.state.Pages, p.state.Total, pct, p.state.WithContent, p.state.Sentences)
}
