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

package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

// Event represents a single crawl event emitted by the engine.
type Event struct {
	// Type is the event type ("claim", "fetch", "error", "page", "complete", ...)
	Type string
	// CrawlID identifies the crawler instance emitting the event
	CrawlID uint32
	// Seq is the claim sequence number of the page the event belongs to,
	// or 0 for events not tied to a single page
	Seq int
	// Values contains event-specific key/value pairs
	Values map[string]string
}

// Debugger is an interface for different debugging backends.
// A Debugger attached to a crawler receives every event the engine emits.
type Debugger interface {
	// Init initializes the backend
	Init() error
	// Event receives a new crawl event
	Event(e *Event)
}

// LogDebugger is the simplest Debugger implementation. It prints events
// to the given io.Writer (default: os.Stderr) using the standard log package.
type LogDebugger struct {
	// Output is the log destination. Defaults to os.Stderr when nil.
	Output io.Writer
	// Prefix appears at the beginning of each log line
	Prefix string
	// Flag defines the logging properties (see the log package)
	Flag int

	counter int32
	start   time.Time
	logger  *log.Logger
}

// Init implements Debugger.Init
func (l *LogDebugger) Init() error {
	if l.Output == nil {
		l.Output = os.Stderr
	}
	l.logger = log.New(l.Output, l.Prefix, l.Flag)
	l.start = time.Now()
	return nil
}

// Event implements Debugger.Event
func (l *LogDebugger) Event(e *Event) {
	i := atomic.AddInt32(&l.counter, 1)
	l.logger.Printf("[%06d] %d [%6d] %s %v (%s)\n", i, e.CrawlID, e.Seq, e.Type, e.Values, time.Since(l.start))
}
