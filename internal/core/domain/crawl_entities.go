package domain

import (
	"time"

	"github.com/google/uuid"
)

// CrawlStats — итог одного полного прохода по каталогу.
type CrawlStats struct {
	RunID          uuid.UUID
	PagesProcessed int
	LinksFound     int
	NewLinks       int
	Saved          int
	Failed         int
	StartedAt      time.Time
	FinishedAt     time.Time
}
