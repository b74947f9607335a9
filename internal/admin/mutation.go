package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
)

// Phase is the state of one mutating action.
type Phase string

const (
	PhaseIdle     Phase = "IDLE"
	PhaseInFlight Phase = "IN_FLIGHT"
	PhaseSuccess  Phase = "SUCCESS"
	PhaseFailure  Phase = "FAILURE"
)

// Verb names a mutating action.
type Verb string

const (
	VerbApprove Verb = "approve"
	VerbReject  Verb = "reject"
	VerbEdit    Verb = "edit"
)

// Action describes one mutation. Write performs it; Refresh refetches the
// owning collection; CloseModal, if set, dismisses the record's modal.
type Action struct {
	Resource   models.Resource
	Verb       Verb
	RecordID   string
	Subject    string
	Reason     string
	Write      func(ctx context.Context) error
	Refresh    func(ctx context.Context) error
	CloseModal func()
}

// Mutation tracks one action through IDLE -> IN_FLIGHT -> SUCCESS|FAILURE -> IDLE.
type Mutation struct {
	ID     string
	Action Action

	mu         sync.Mutex
	phase      Phase
	history    []Phase
	err        error
	refreshErr error
	message    string
}

func newMutation(a Action) *Mutation {
	return &Mutation{ID: uuid.NewString(), Action: a, phase: PhaseIdle, history: []Phase{PhaseIdle}}
}

func (m *Mutation) transition(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = p
	m.history = append(m.history, p)
}

func (m *Mutation) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// History lists every phase the mutation went through.
func (m *Mutation) History() []Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Phase, len(m.history))
	copy(out, m.history)
	return out
}

// Err is the write error of a failed mutation.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// RefreshErr is the error of the post-success refetch, if it failed. The
// mutation itself still succeeded.
func (m *Mutation) RefreshErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshErr
}

// Message is the notification text of the finished mutation.
func (m *Mutation) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

// Runner executes mutations and reports their outcome.
type Runner struct {
	notifier Notifier
	now      func() time.Time
}

func NewRunner(notifier Notifier) *Runner {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Runner{notifier: notifier, now: time.Now}
}

// Run performs the write and, only once it has returned successfully,
// closes the modal, refetches the owning collection and notifies success.
// A failed write leaves the modal and the collection alone and notifies the
// failure. There are no retries.
func (r *Runner) Run(ctx context.Context, a Action) (*Mutation, error) {
	m := newMutation(a)
	if a.Write == nil {
		return m, fmt.Errorf("mutation %s %s has no write", a.Verb, a.Resource)
	}

	m.transition(PhaseInFlight)
	logging.Debugf("[%s] %s %s %s in flight", m.ID, a.Verb, a.Resource, a.RecordID)

	if err := a.Write(ctx); err != nil {
		m.mu.Lock()
		m.err = err
		m.mu.Unlock()
		m.transition(PhaseFailure)
		observability.MutationsTotal.WithLabelValues(string(a.Resource), string(a.Verb), "failure").Inc()
		r.notify(ctx, m, false, apierr.Message(err, failureMessage(a)))
		m.transition(PhaseIdle)
		return m, err
	}

	m.transition(PhaseSuccess)
	observability.MutationsTotal.WithLabelValues(string(a.Resource), string(a.Verb), "success").Inc()
	if a.CloseModal != nil {
		a.CloseModal()
	}
	if a.Refresh != nil {
		if err := a.Refresh(ctx); err != nil {
			logging.Warnf("[%s] refetch of %s after %s failed: %v", m.ID, a.Resource, a.Verb, err)
			m.mu.Lock()
			m.refreshErr = err
			m.mu.Unlock()
		}
	}
	r.notify(ctx, m, true, successMessage(a))
	m.transition(PhaseIdle)
	return m, nil
}

func (r *Runner) notify(ctx context.Context, m *Mutation, success bool, msg string) {
	a := m.Action
	m.mu.Lock()
	m.message = msg
	m.mu.Unlock()
	r.notifier.Notify(ctx, Notification{
		MutationID: m.ID,
		Resource:   a.Resource,
		Action:     a.Verb,
		RecordID:   a.RecordID,
		Subject:    a.Subject,
		Reason:     a.Reason,
		Success:    success,
		Message:    msg,
		At:         r.now(),
	})
}

func successMessage(a Action) string {
	subject := a.Subject
	if subject == "" {
		subject = a.RecordID
	}
	switch a.Verb {
	case VerbApprove:
		return fmt.Sprintf("%s has been approved successfully.", subject)
	case VerbReject:
		return fmt.Sprintf("%s has been rejected.", subject)
	}
	return fmt.Sprintf("%s has been updated successfully.", subject)
}

func failureMessage(a Action) string {
	return fmt.Sprintf("Failed to %s %s", a.Verb, singular(a.Resource))
}

func singular(r models.Resource) string {
	switch r {
	case models.ResourceAgents:
		return "agent"
	case models.ResourceISVs:
		return "ISV"
	case models.ResourceResellers:
		return "reseller"
	case models.ResourceEnquiries:
		return "enquiry"
	}
	return string(r)
}
