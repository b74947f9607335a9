package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
)

// Services are the resource services the dashboard drives.
type Services struct {
	Agents    services.IAgentService
	ISVs      services.IISVService
	Resellers services.IResellerService
	Enquiries services.IEnquiryService
}

// Dashboard owns one collection per tab.
type Dashboard struct {
	Agents    *Collection[models.Agent]
	ISVs      *Collection[models.ISV]
	Resellers *Collection[models.Reseller]
	Enquiries *Collection[models.Enquiry]

	svc    Services
	runner *Runner

	mu     sync.Mutex
	active models.Resource
}

func NewDashboard(svc Services, notifier Notifier) *Dashboard {
	return &Dashboard{
		Agents:    NewCollection(string(models.ResourceAgents), svc.Agents.FetchAll),
		ISVs:      NewCollection(string(models.ResourceISVs), svc.ISVs.FetchAll),
		Resellers: NewCollection(string(models.ResourceResellers), svc.Resellers.FetchAll),
		Enquiries: NewCollection(string(models.ResourceEnquiries), svc.Enquiries.FetchAll),
		svc:       svc,
		runner:    NewRunner(notifier),
	}
}

// Active returns the active tab, or "" before the first activation.
func (d *Dashboard) Active() models.Resource {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Activate switches tabs: the previous tab's in-flight fetches are detached
// and the new tab's collection is refetched.
func (d *Dashboard) Activate(ctx context.Context, tab models.Resource) error {
	if _, err := models.ParseResource(string(tab)); err != nil {
		return apierr.Validation("", err.Error())
	}

	d.mu.Lock()
	prev := d.active
	d.active = tab
	d.mu.Unlock()

	if prev != "" && prev != tab {
		d.detach(prev)
	}
	return d.Refresh(ctx, tab)
}

// Refresh refetches one tab's collection.
func (d *Dashboard) Refresh(ctx context.Context, tab models.Resource) error {
	switch tab {
	case models.ResourceAgents:
		return d.Agents.Refresh(ctx)
	case models.ResourceISVs:
		return d.ISVs.Refresh(ctx)
	case models.ResourceResellers:
		return d.Resellers.Refresh(ctx)
	case models.ResourceEnquiries:
		return d.Enquiries.Refresh(ctx)
	}
	return apierr.Validation("", fmt.Sprintf("unknown resource %q", tab))
}

// LoadAll fetches every tab in parallel so counts are available up front.
// Each failure is kept on its collection; the joined error is returned.
func (d *Dashboard) LoadAll(ctx context.Context) error {
	tabs := []models.Resource{models.ResourceAgents, models.ResourceISVs, models.ResourceResellers, models.ResourceEnquiries}
	errs := make([]error, len(tabs))

	var wg sync.WaitGroup
	for i, tab := range tabs {
		wg.Add(1)
		go func(i int, tab models.Resource) {
			defer wg.Done()
			errs[i] = d.Refresh(ctx, tab)
		}(i, tab)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// LastError returns the retry-affordance error of a tab.
func (d *Dashboard) LastError(tab models.Resource) error {
	switch tab {
	case models.ResourceAgents:
		return d.Agents.LastError()
	case models.ResourceISVs:
		return d.ISVs.LastError()
	case models.ResourceResellers:
		return d.Resellers.LastError()
	case models.ResourceEnquiries:
		return d.Enquiries.LastError()
	}
	return nil
}

func (d *Dashboard) detach(tab models.Resource) {
	switch tab {
	case models.ResourceAgents:
		d.Agents.Detach()
	case models.ResourceISVs:
		d.ISVs.Detach()
	case models.ResourceResellers:
		d.Resellers.Detach()
	case models.ResourceEnquiries:
		d.Enquiries.Detach()
	}
}

// ActionOption customizes a dashboard mutation.
type ActionOption func(*Action)

// WithModal registers the modal to close when the mutation succeeds.
func WithModal(closeModal func()) ActionOption {
	return func(a *Action) { a.CloseModal = closeModal }
}

// WithReason attaches the operator's reject reason. It is reported in the
// notification and audit trail only; the backend never receives it.
func WithReason(reason string) ActionOption {
	return func(a *Action) { a.Reason = reason }
}

// Approve sets admin_approved to yes on an agent, ISV or reseller.
func (d *Dashboard) Approve(ctx context.Context, resource models.Resource, id string, opts ...ActionOption) (*Mutation, error) {
	return d.setApproval(ctx, resource, id, models.ApprovalYes, VerbApprove, opts)
}

// Reject sets admin_approved to no on an agent, ISV or reseller.
func (d *Dashboard) Reject(ctx context.Context, resource models.Resource, id string, opts ...ActionOption) (*Mutation, error) {
	return d.setApproval(ctx, resource, id, models.ApprovalNo, VerbReject, opts)
}

// Edit writes changes to one record. The identifying fields are re-sent by
// the resource service.
func (d *Dashboard) Edit(ctx context.Context, resource models.Resource, id string, changes map[string]string, opts ...ActionOption) (*Mutation, error) {
	if len(changes) == 0 {
		return nil, apierr.Validation("", "no changes to save")
	}
	a, err := d.action(ctx, resource, id, VerbEdit, func(ctx context.Context) error {
		switch resource {
		case models.ResourceAgents:
			agent, _ := d.Agents.Find(func(a models.Agent) bool { return a.AgentID == id })
			return d.svc.Agents.Update(ctx, agent, changes)
		case models.ResourceISVs:
			isv, _ := d.ISVs.Find(func(i models.ISV) bool { return i.ISVID == id })
			return d.svc.ISVs.Update(ctx, isv, changes)
		default:
			reseller, _ := d.Resellers.Find(func(r models.Reseller) bool { return r.ResellerID == id })
			return d.svc.Resellers.Update(ctx, reseller, changes)
		}
	})
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&a)
	}
	return d.runner.Run(ctx, a)
}

func (d *Dashboard) setApproval(ctx context.Context, resource models.Resource, id string, approval models.Approval, verb Verb, opts []ActionOption) (*Mutation, error) {
	a, err := d.action(ctx, resource, id, verb, func(ctx context.Context) error {
		switch resource {
		case models.ResourceAgents:
			agent, _ := d.Agents.Find(func(a models.Agent) bool { return a.AgentID == id })
			return d.svc.Agents.SetApproval(ctx, agent, approval)
		case models.ResourceISVs:
			isv, _ := d.ISVs.Find(func(i models.ISV) bool { return i.ISVID == id })
			return d.svc.ISVs.SetApproval(ctx, isv, approval)
		default:
			reseller, _ := d.Resellers.Find(func(r models.Reseller) bool { return r.ResellerID == id })
			return d.svc.Resellers.SetApproval(ctx, reseller, approval)
		}
	})
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&a)
	}
	return d.runner.Run(ctx, a)
}

// action resolves the record in its collection (fetching once if the
// collection was never loaded) and builds the Action around write.
func (d *Dashboard) action(ctx context.Context, resource models.Resource, id string, verb Verb, write func(ctx context.Context) error) (Action, error) {
	if id == "" {
		return Action{}, apierr.Validation("", "id is required")
	}
	var (
		subject string
		found   bool
		refresh func(ctx context.Context) error
	)
	lookup := func() {
		switch resource {
		case models.ResourceAgents:
			var a models.Agent
			a, found = d.Agents.Find(func(a models.Agent) bool { return a.AgentID == id })
			subject = a.AgentName
		case models.ResourceISVs:
			var i models.ISV
			i, found = d.ISVs.Find(func(i models.ISV) bool { return i.ISVID == id })
			subject = i.ISVName
		case models.ResourceResellers:
			var r models.Reseller
			r, found = d.Resellers.Find(func(r models.Reseller) bool { return r.ResellerID == id })
			subject = r.ResellerName
		}
	}

	switch resource {
	case models.ResourceAgents:
		refresh = d.Agents.Refresh
	case models.ResourceISVs:
		refresh = d.ISVs.Refresh
	case models.ResourceResellers:
		refresh = d.Resellers.Refresh
	case models.ResourceEnquiries:
		return Action{}, apierr.Validation("", "enquiries cannot be modified")
	default:
		return Action{}, apierr.Validation("", fmt.Sprintf("unknown resource %q", resource))
	}

	lookup()
	if !found && !d.loaded(resource) {
		if err := refresh(ctx); err != nil {
			return Action{}, err
		}
		lookup()
	}
	if !found {
		return Action{}, &apierr.APIError{Kind: apierr.KindNotFound, Message: apierr.MsgNotFound, Status: 404}
	}

	return Action{
		Resource: resource,
		Verb:     verb,
		RecordID: id,
		Subject:  subject,
		Write:    write,
		Refresh:  refresh,
	}, nil
}

func (d *Dashboard) loaded(resource models.Resource) bool {
	switch resource {
	case models.ResourceAgents:
		return d.Agents.Loaded()
	case models.ResourceISVs:
		return d.ISVs.Loaded()
	case models.ResourceResellers:
		return d.Resellers.Loaded()
	}
	return false
}

// Stats are the per-tab badge counts.
type Stats struct {
	Agents           int `json:"agents"`
	AgentsPending    int `json:"agents_pending"`
	ISVs             int `json:"isvs"`
	ISVsPending      int `json:"isvs_pending"`
	Resellers        int `json:"resellers"`
	ResellersPending int `json:"resellers_pending"`
	Enquiries        int `json:"enquiries"`
	EnquiriesNew     int `json:"enquiries_new"`
}

// Stats computes counts from the current snapshots.
func (d *Dashboard) Stats() Stats {
	var s Stats
	for _, a := range d.Agents.Items() {
		s.Agents++
		if !a.AdminApproved.Approved() {
			s.AgentsPending++
		}
	}
	for _, i := range d.ISVs.Items() {
		s.ISVs++
		if !i.AdminApproved.Approved() {
			s.ISVsPending++
		}
	}
	for _, r := range d.Resellers.Items() {
		s.Resellers++
		if !r.AdminApproved.Approved() {
			s.ResellersPending++
		}
	}
	for _, e := range d.Enquiries.Items() {
		s.Enquiries++
		if e.Status == models.EnquiryNew {
			s.EnquiriesNew++
		}
	}
	return s
}
