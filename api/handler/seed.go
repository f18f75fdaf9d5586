package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/webhook"
)

// ItemSeeder seeds one URL and reports the outcome without failing.
type ItemSeeder interface {
	SeedOne(ctx context.Context, rawURL string, categorySlugs []string, maxWords int) models.BatchItemResult
}

// seedQueueSize bounds the number of accepted jobs waiting for the worker.
const seedQueueSize = 64

type seedTask struct {
	sd            ItemSeeder
	job           *models.SeedJob
	req           models.SeedRequest
	webhookSecret string
}

// SeedJobs holds all in-flight and completed seed jobs.
// A single worker runs jobs one after another in submission order, so
// every URL across all jobs is seeded sequentially.
// Jobs older than 1 hour are expired by a background goroutine.
type SeedJobs struct {
	jobs  sync.Map
	queue chan seedTask
}

// NewSeedJobs creates an empty job table and starts its worker.
func NewSeedJobs() *SeedJobs {
	s := &SeedJobs{queue: make(chan seedTask, seedQueueSize)}
	go s.worker()
	go s.expireLoop()
	return s
}

func (s *SeedJobs) worker() {
	for t := range s.queue {
		runSeed(t.sd, t.job, t.req, t.webhookSecret)
	}
}

func (s *SeedJobs) expireLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour).Unix()
		s.jobs.Range(func(key, value any) bool {
			if value.(*models.SeedJob).CreatedAt < cutoff {
				s.jobs.Delete(key)
			}
			return true
		})
	}
}

// PostSeed returns a handler for POST /api/v1/seed.
// It creates a job and queues it for the background worker. A full queue
// answers 503.
func PostSeed(sd ItemSeeder, jobs *SeedJobs, defaultMaxWords int, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sd == nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "seeding is not configured: set BRANDSEED_OWNER_ID",
				},
			})
			return
		}

		var req models.SeedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.Defaults(defaultMaxWords)

		job := models.NewSeedJob("seed-"+randomID(), len(req.URLs), time.Now().Unix())
		jobs.jobs.Store(job.ID, job)

		select {
		case jobs.queue <- seedTask{sd: sd, job: job, req: req, webhookSecret: webhookSecret}:
		default:
			jobs.jobs.Delete(job.ID)
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "seed queue is full, retry later",
				},
			})
			return
		}

		c.JSON(http.StatusAccepted, models.SeedResponse{
			ID:     job.ID,
			Status: models.JobProcessing,
			Total:  job.Total,
		})
	}
}

// GetSeed returns a handler for GET /api/v1/seed/:id.
func GetSeed(jobs *SeedJobs) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := jobs.jobs.Load(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeNotFound,
					Message: "seed job not found",
				},
			})
			return
		}
		c.JSON(http.StatusOK, val.(*models.SeedJob).Snapshot())
	}
}

// runSeed processes the job's URLs strictly in order. A later URL that
// duplicates an earlier one sees the record the earlier one created.
// Results are appended as they arrive so GET can report progress.
func runSeed(sd ItemSeeder, job *models.SeedJob, req models.SeedRequest, webhookSecret string) {
	ctx := context.Background()
	created := 0
	for _, u := range req.URLs {
		r := sd.SeedOne(ctx, u, req.Categories, req.MaxWords)
		if r.Success {
			created++
		}
		job.Append(r)
	}
	status := job.Finish()
	snap := job.Snapshot()

	slog.Info("seed batch completed",
		"id", job.ID,
		"status", status,
		"total", job.Total,
		"created", created,
		"failed", job.Total-created,
	)

	if req.WebhookURL != "" {
		webhook.DeliverAsync(req.WebhookURL, webhookSecret, &webhook.Event{
			Type:      webhook.EventSeedCompleted,
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data:      snap,
		})
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
