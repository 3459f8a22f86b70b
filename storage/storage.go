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

package storage

import (
	"sync"
)

// Storage is an interface which handles the crawler's internal data,
// like the visited-URL set and content fingerprints. The default Storage
// of a crawler is the InMemoryStorage.
type Storage interface {
	// Init initializes the storage
	Init() error
	// Visited receives and stores a URL key that has been claimed for crawling
	Visited(urlKey uint64) error
	// IsVisited returns true if the URL key was visited before
	IsVisited(urlKey uint64) (bool, error)
	// VisitIfNotVisited atomically checks if a URL key has been visited,
	// and if not, marks it as visited. Returns true if the URL was already
	// visited. This is the atomic equivalent of IsVisited() + Visited() and
	// prevents two workers from claiming the same URL.
	VisitIfNotVisited(urlKey uint64) (bool, error)
	// SetContentHash stores a content fingerprint for a given URL
	SetContentHash(url string, contentHash string) error
	// GetContentHash retrieves the stored content fingerprint for a given URL
	GetContentHash(url string) (string, error)
	// MarkContentIfNew atomically checks whether a content fingerprint has
	// been seen before, and if not, records it together with the URL that
	// produced it. Returns the URL first recorded for that fingerprint and
	// true when the fingerprint was already known.
	MarkContentIfNew(contentHash string, url string) (firstURL string, seen bool, err error)
}

// InMemoryStorage is the default storage backend.
// It keeps the visited set and content fingerprints in memory without
// persisting anything to disk.
type InMemoryStorage struct {
	visitedURLs   map[uint64]bool
	contentHashes map[string]string // url -> content fingerprint
	contentFirst  map[string]string // content fingerprint -> first URL
	lock          *sync.RWMutex
}

// Init initializes InMemoryStorage
func (s *InMemoryStorage) Init() error {
	if s.visitedURLs == nil {
		s.visitedURLs = make(map[uint64]bool)
	}
	if s.contentHashes == nil {
		s.contentHashes = make(map[string]string)
	}
	if s.contentFirst == nil {
		s.contentFirst = make(map[string]string)
	}
	if s.lock == nil {
		s.lock = &sync.RWMutex{}
	}
	return nil
}

// Visited implements Storage.Visited()
func (s *InMemoryStorage) Visited(urlKey uint64) error {
	s.lock.Lock()
	s.visitedURLs[urlKey] = true
	s.lock.Unlock()
	return nil
}

// IsVisited implements Storage.IsVisited()
func (s *InMemoryStorage) IsVisited(urlKey uint64) (bool, error) {
	s.lock.RLock()
	visited := s.visitedURLs[urlKey]
	s.lock.RUnlock()
	return visited, nil
}

// VisitIfNotVisited implements Storage.VisitIfNotVisited()
func (s *InMemoryStorage) VisitIfNotVisited(urlKey uint64) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.visitedURLs[urlKey] {
		return true, nil
	}
	s.visitedURLs[urlKey] = true
	return false, nil
}

// SetContentHash implements Storage.SetContentHash()
func (s *InMemoryStorage) SetContentHash(url string, contentHash string) error {
	s.lock.Lock()
	s.contentHashes[url] = contentHash
	s.lock.Unlock()
	return nil
}

// GetContentHash implements Storage.GetContentHash()
func (s *InMemoryStorage) GetContentHash(url string) (string, error) {
	s.lock.RLock()
	hash := s.contentHashes[url]
	s.lock.RUnlock()
	return hash, nil
}

// MarkContentIfNew implements Storage.MarkContentIfNew()
func (s *InMemoryStorage) MarkContentIfNew(contentHash string, url string) (string, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if first, ok := s.contentFirst[contentHash]; ok {
		return first, true, nil
	}
	s.contentFirst[contentHash] = url
	return url, false, nil
}
