package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/proxy"
)

// TaskType defines the type of a background task.
const (
	TypeAuditRecord = "admin:audit"
	TypeAssetWarm   = "asset:warm"
)

const (
	queueAudit  = "default"
	queueAssets = "images"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// Enqueuer is the part of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditNotifier records every mutation notification as an audit task.
// Enqueue failures are logged; the mutation outcome is never affected.
type AuditNotifier struct {
	enq Enqueuer
}

func NewAuditNotifier(enq Enqueuer) *AuditNotifier {
	return &AuditNotifier{enq: enq}
}

func (n *AuditNotifier) Notify(ctx context.Context, note admin.Notification) {
	payload, err := json.Marshal(note)
	if err != nil {
		logging.Errorf("audit: failed to marshal notification %s: %v", note.MutationID, err)
		return
	}
	task := asynq.NewTask(TypeAuditRecord, payload, asynq.MaxRetry(5), asynq.Queue(queueAudit))
	if _, err := n.enq.EnqueueContext(ctx, task); err != nil {
		observability.AuditTasks.WithLabelValues("enqueue_failed").Inc()
		logging.Warnf("audit: failed to enqueue %s: %v", note.MutationID, err)
		return
	}
	observability.AuditTasks.WithLabelValues("enqueued").Inc()
}

// AssetWarmPayload names one image to pull into the proxy cache.
type AssetWarmPayload struct {
	URL   string `json:"url"`
	Width int    `json:"width,omitempty"`
}

// EnqueueAssetWarm schedules cache warming for each URL. It returns how many
// tasks were enqueued and the first error, if any.
func EnqueueAssetWarm(ctx context.Context, enq Enqueuer, urls []string, width int) (int, error) {
	var firstErr error
	count := 0
	for _, u := range urls {
		payload, err := json.Marshal(AssetWarmPayload{URL: u, Width: width})
		if err != nil {
			return count, err
		}
		task := asynq.NewTask(TypeAssetWarm, payload, asynq.MaxRetry(2), asynq.Queue(queueAssets), asynq.Timeout(time.Minute))
		if _, err := enq.EnqueueContext(ctx, task); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to enqueue warm task for %s: %w", u, err)
			}
			continue
		}
		count++
	}
	return count, firstErr
}

// --- Task Server (Processing tasks) ---

// AuditSink persists audit entries.
type AuditSink interface {
	Record(ctx context.Context, note admin.Notification) error
}

// ImageFetcher is the part of the asset proxy used to warm its cache.
type ImageFetcher interface {
	FetchImage(ctx context.Context, rawURL, rng string, width int) (*proxy.Result, error)
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	sink   AuditSink
	images ImageFetcher
}

func NewTaskProcessor(sink AuditSink, images ImageFetcher) *TaskProcessor {
	return &TaskProcessor{sink: sink, images: images}
}

// SetupServer configures an Asynq server instance. The caller runs it with
// the processor's Mux.
func SetupServer(rdb *redis.Client) *asynq.Server {
	opts := rdb.Options()
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				queueAudit:  6,
				queueAssets: 2,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logging.Errorf("[asynq] task %s failed: %v (payload %s)", task.Type(), err, task.Payload())
			}),
		},
	)
}

// Mux registers the handlers this processor can serve.
func (p *TaskProcessor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	if p.sink != nil {
		mux.HandleFunc(TypeAuditRecord, p.HandleAuditTask)
	}
	if p.images != nil {
		mux.HandleFunc(TypeAssetWarm, p.HandleAssetWarmTask)
	}
	return mux
}

// --- Task Handlers ---

func (p *TaskProcessor) HandleAuditTask(ctx context.Context, t *asynq.Task) error {
	var note admin.Notification
	if err := json.Unmarshal(t.Payload(), &note); err != nil {
		observability.AuditTasks.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to unmarshal audit payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.sink.Record(ctx, note); err != nil {
		observability.AuditTasks.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to record audit entry %s: %w", note.MutationID, err)
	}
	observability.AuditTasks.WithLabelValues("processed").Inc()
	return nil
}

func (p *TaskProcessor) HandleAssetWarmTask(ctx context.Context, t *asynq.Task) error {
	var payload AssetWarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal warm payload: %v: %w", err, asynq.SkipRetry)
	}
	res, err := p.images.FetchImage(ctx, payload.URL, "", payload.Width)
	if err != nil {
		return fmt.Errorf("failed to warm %s: %w", payload.URL, err)
	}
	logging.Debugf("warmed %s from %s", payload.URL, res.Source)
	return nil
}
