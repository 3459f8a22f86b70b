// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package sitemark

import (
	"sync"

	"github.com/agentberlin/sitemark/storage"
)

// Frontier owns the FIFO discovery queue and the visited set driving a
// breadth-first crawl. Offer never dedups; dedup happens exactly once, at
// claim time, via the storage's atomic visit-check-then-mark. A URL that
// is offered five times is claimed once.
type Frontier struct {
	mu    sync.Mutex
	queue []string // normalized URLs in discovery order
	store storage.Storage
	seq   int // next claim sequence number
}

// NewFrontier creates a frontier backed by the given storage.
// The storage must already be initialized.
func NewFrontier(store storage.Storage) *Frontier {
	return &Frontier{store: store}
}

// Offer appends a normalized URL to the back of the queue. Already-visited
// and already-queued URLs are accepted; they are skipped when claimed.
func (f *Frontier) Offer(normalizedURL string) {
	f.mu.Lock()
	f.queue = append(f.queue, normalizedURL)
	f.mu.Unlock()
}

// Claim pops queued URLs until it finds one that has not been visited,
// marks it visited and returns it together with its claim sequence number.
// ok is false when the queue holds nothing claimable. A URL returned by
// Claim is never returned again, by this or any concurrent caller.
func (f *Frontier) Claim() (normalizedURL string, seq int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) > 0 {
		next := f.queue[0]
		f.queue = f.queue[1:]

		visited, err := f.store.VisitIfNotVisited(urlKey(next))
		if err != nil || visited {
			continue
		}

		seq = f.seq
		f.seq++
		return next, seq, true
	}
	return "", 0, false
}

// Pending returns the number of queued entries. Some of them may already
// be visited and will be discarded at claim time.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Claimed returns how many URLs have been claimed so far.
func (f *Frontier) Claimed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}
