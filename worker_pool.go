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
	"context"
	"sync"
)

// workerPool manages a fixed number of worker goroutines processing work
// items from a bounded queue. Submit blocks when the queue is full, which
// gives the crawl loop backpressure instead of unbounded goroutine growth.
type workerPool struct {
	workQueue chan func()
	wg        sync.WaitGroup
	ctx       context.Context
}

func newWorkerPool(ctx context.Context, maxWorkers, queueSize int) *workerPool {
	wp := &workerPool{
		workQueue: make(chan func(), queueSize),
		ctx:       ctx,
	}

	for i := 0; i < maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work()
		case <-wp.ctx.Done():
			return
		}
	}
}

// Submit queues a work item, blocking while the queue is full. It returns
// the context's error when the pool's context is cancelled first.
func (wp *workerPool) Submit(work func()) error {
	select {
	case wp.workQueue <- work:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Close shuts the pool down and waits for in-flight work to finish.
func (wp *workerPool) Close() {
	close(wp.workQueue)
	wp.wg.Wait()
}
