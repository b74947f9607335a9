package admin

import (
	"context"
	"sync"
	"time"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// Notification is the transient message surfaced after a mutation.
type Notification struct {
	MutationID string          `json:"mutation_id"`
	Resource   models.Resource `json:"resource"`
	Action     Verb            `json:"action"`
	RecordID   string          `json:"record_id"`
	Subject    string          `json:"subject"`
	Reason     string          `json:"reason,omitempty"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	At         time.Time       `json:"at"`
}

// Notifier surfaces mutation outcomes.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the leveled log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	if n.Success {
		logging.Infof("[%s] %s %s %s: %s", n.MutationID, n.Action, n.Resource, n.RecordID, n.Message)
		return
	}
	logging.Errorf("[%s] %s %s %s failed: %s", n.MutationID, n.Action, n.Resource, n.RecordID, n.Message)
}

// RecordingNotifier keeps every notification in memory.
type RecordingNotifier struct {
	mu  sync.Mutex
	all []Notification
}

func (r *RecordingNotifier) Notify(ctx context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of every recorded notification.
func (r *RecordingNotifier) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Last returns the most recent notification.
func (r *RecordingNotifier) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// MultiNotifier fans out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
