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
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CrawlRun is a single archived crawl.
type CrawlRun struct {
	ID        uint      `gorm:"primaryKey"`
	Seed      string    `gorm:"not null"`
	StartedAt time.Time `gorm:"not null"`
	Duration  int64     // nanoseconds
	Pages     int
	Failed    int
	CreatedAt time.Time
}

// PageRecord is one crawled page belonging to a CrawlRun.
type PageRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       uint   `gorm:"index;not null"`
	URL         string `gorm:"not null"`
	Title       string
	Markdown    string
	Seq         int
	ContentHash string
	CreatedAt   time.Time
}

// Archive persists crawl runs and their pages to a SQLite database.
type Archive struct {
	db *gorm.DB
}

// OpenArchive opens (or creates) the archive database at dbPath and runs
// migrations for the archive models.
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := db.AutoMigrate(&CrawlRun{}, &PageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// SaveRun stores a crawl run and its pages in a single transaction.
// The pages' RunID is filled in from the stored run.
func (a *Archive) SaveRun(run *CrawlRun, pages []PageRecord) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range pages {
			pages[i].RunID = run.ID
		}
		if len(pages) == 0 {
			return nil
		}
		return tx.Create(&pages).Error
	})
}

// LastRun returns the most recently archived crawl run for a seed URL,
// or nil when the seed has never been archived.
func (a *Archive) LastRun(seed string) (*CrawlRun, error) {
	var run CrawlRun
	err := a.db.Where("seed = ?", seed).Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RunPages returns the pages of an archived run ordered by claim sequence.
func (a *Archive) RunPages(runID uint) ([]PageRecord, error) {
	var pages []PageRecord
	err := a.db.Where("run_id = ?", runID).Order("seq ASC").Find(&pages).Error
	return pages, err
}
