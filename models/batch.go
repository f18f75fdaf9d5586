package models

import "sync"

// Seed job states.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobPartial    = "partial"
	JobFailed     = "failed"
)

// SeedResponse is the immediate response for POST /api/v1/seed.
type SeedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// SeedStatusResponse is the response for GET /api/v1/seed/:id.
type SeedStatusResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Results   []BatchItemResult `json:"results"`
}

// SeedJob tracks an in-progress seeding batch.
type SeedJob struct {
	ID        string
	Total     int
	CreatedAt int64 // unix timestamp

	mu      sync.Mutex
	status  string
	results []BatchItemResult
}

// NewSeedJob creates a job in the processing state.
func NewSeedJob(id string, total int, createdAt int64) *SeedJob {
	return &SeedJob{
		ID:        id,
		Total:     total,
		CreatedAt: createdAt,
		status:    JobProcessing,
		results:   make([]BatchItemResult, 0, total),
	}
}

// Append records the next item result in input order.
func (j *SeedJob) Append(r BatchItemResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, r)
}

// Finish settles the final status from the recorded results.
func (j *SeedJob) Finish() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	failed := 0
	for _, r := range j.results {
		if !r.Success {
			failed++
		}
	}
	switch {
	case len(j.results) > 0 && failed == len(j.results):
		j.status = JobFailed
	case failed > 0:
		j.status = JobPartial
	default:
		j.status = JobCompleted
	}
	return j.status
}

// Snapshot returns a copy safe to serialize while the job runs.
func (j *SeedJob) Snapshot() SeedStatusResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]BatchItemResult, len(j.results))
	copy(results, j.results)
	return SeedStatusResponse{
		ID:        j.ID,
		Status:    j.status,
		Completed: len(results),
		Total:     j.Total,
		Results:   results,
	}
}
