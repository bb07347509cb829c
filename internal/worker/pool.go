package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"evidencias/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// ErrPermanent marks a job failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent job failure")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job type.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	metrics  *metrics.Metrics
	wg       sync.WaitGroup
}

// StartWorkerPool launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing. Cancel ctx
// and call Wait to drain them.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler, m *metrics.Metrics) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	p := &Pool{rdb: rdb, handlers: handlers, queues: []string{QueueEmail}, metrics: m}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return p
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		// Blocking pop: waits up to 2s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 2*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "invalid envelope: "+err.Error(), 0)
		p.metrics.Job("unknown", "dead")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		p.metrics.Job(job.Type, "dead")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		p.metrics.Job(job.Type, "ok")
		return
	}

	if errors.Is(err, ErrPermanent) || job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		p.metrics.Job(job.Type, "dead")
		return
	}

	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("worker: job failed, requeueing")
	p.metrics.Job(job.Type, "retry")
	if perr := push(ctx, p.rdb, queue, job); perr != nil {
		log.Error().Err(perr).Str("queue", queue).Msg("worker: requeue failed")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "requeue failed: "+perr.Error(), job.Attempts)
	}
}
