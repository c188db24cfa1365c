package rest

import "time"

type healthResponse struct {
	Status string `json:"status"`
}

type statsResponse struct {
	TotalCars int64       `json:"total_cars"`
	LastRun   *lastRunDTO `json:"last_run,omitempty"`
}

type lastRunDTO struct {
	RunID          string    `json:"run_id"`
	PagesProcessed int       `json:"pages_processed"`
	LinksFound     int       `json:"links_found"`
	NewLinks       int       `json:"new_links"`
	Saved          int       `json:"saved"`
	Failed         int       `json:"failed"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
