package models

import "time"

// SystemMetrics is a lightweight snapshot of engine and HTTP activity for
// the status endpoint.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	GenerationsAI            uint64    `json:"generationsAi"`
	GenerationsFallback      uint64    `json:"generationsFallback"`
	RepairedCommitments      uint64    `json:"repairedCommitments"`
	EditsApplied             uint64    `json:"editsApplied"`
	EditsRejected            uint64    `json:"editsRejected"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
