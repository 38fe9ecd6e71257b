package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"educater_backend/internal/email"
	incentiverepo "educater_backend/internal/incentives/repository"
	"educater_backend/internal/notification/outbox"
	repsrepo "educater_backend/internal/reps/repository"
	"educater_backend/platform/config"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Outbox templates the worker knows how to deliver.
const (
	TemplateIncentive = "incentive"
	TemplateCustom    = "custom"
)

const maxOutboxAttempts = 5

// IncentiveEmailPayload is the outbox payload for one incentive email.
type IncentiveEmailPayload struct {
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CustomEmailPayload is the outbox payload for a one-off email.
type CustomEmailPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Worker runs the asynq server and processes queued jobs.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	incentives incentiverepo.Repository
	reps       repsrepo.Repository
	outbox     *outbox.Repository
	mail       email.Sender
	log        *logger.Logger
}

// NewWorker creates the worker from the scheduler config.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, mail email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		incentives: incentiverepo.New(pool),
		reps:       repsrepo.New(pool),
		outbox:     outbox.New(pool),
		mail:       mail,
		log:        log,
	}

	mux.HandleFunc(TaskIncentiveBroadcast, w.handleIncentiveBroadcast)
	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)

	return w, nil
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleIncentiveBroadcast expands one incentive into one outbox row per
// rep. Delivery itself happens per row via the outbox dispatcher, so a
// single bad mailbox never stalls the whole broadcast.
func (w *Worker) handleIncentiveBroadcast(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseIncentiveBroadcastPayload(task)
	if err != nil {
		return err
	}

	incentiveID, err := uuid.Parse(payload.IncentiveID)
	if err != nil {
		return err
	}

	inc, err := w.incentives.GetByID(ctx, incentiveID)
	if err != nil {
		return err
	}

	reps, err := w.reps.List(ctx)
	if err != nil {
		return err
	}

	queued := 0
	for _, rep := range reps {
		if rep.Email == "" {
			continue
		}
		_, err := w.outbox.Insert(ctx, outbox.InsertParams{
			RepID:    rep.ID,
			Kind:     "email",
			Template: TemplateIncentive,
			Payload: IncentiveEmailPayload{
				Email:       rep.Email,
				Title:       inc.Title,
				Description: inc.Description,
			},
		})
		if err != nil {
			return err
		}
		queued++
	}

	w.log.Info("incentive broadcast queued", "incentiveId", incentiveID, "recipients", queued)
	return nil
}

// handleNotificationOutboxDue delivers one claimed outbox row. The outbox
// owns retries: a failed send flips the row back to pending until the
// attempt budget runs out, and the task itself never errors for send
// failures.
func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	rec, err := w.outbox.GetByID(ctx, outboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}

	if err := w.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	if sendErr := w.deliver(ctx, rec); sendErr != nil {
		if rec.Attempts+1 >= maxOutboxAttempts {
			w.log.Error("notification delivery gave up", "outboxId", rec.ID, "template", rec.Template, "error", sendErr)
			return w.outbox.MarkFailed(ctx, rec.ID, sendErr.Error())
		}
		msg := sendErr.Error()
		return w.outbox.MarkPending(ctx, rec.ID, &msg)
	}

	return w.outbox.MarkSucceeded(ctx, rec.ID)
}

func (w *Worker) deliver(ctx context.Context, rec outbox.Record) error {
	switch rec.Template {
	case TemplateIncentive:
		var p IncentiveEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return w.mail.SendIncentiveAnnouncementEmail(ctx, p.Email, p.Title, p.Description)
	case TemplateCustom:
		var p CustomEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return w.mail.SendCustomEmail(ctx, p.Email, p.Subject, p.HTML)
	default:
		return fmt.Errorf("unknown outbox template %q", rec.Template)
	}
}
