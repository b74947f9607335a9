package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// RelatedAgentsLimit caps the similar-agents fallback.
const RelatedAgentsLimit = 4

// MsgAgentUnavailable is returned when an agent is missing or not approved.
const MsgAgentUnavailable = "This agent is not available or not approved yet."

// Neighbours are the previous and next approved agents around one agent.
type Neighbours struct {
	Prev *models.Agent `json:"prev"`
	Next *models.Agent `json:"next"`
}

// ICatalogService reads the public agent catalog.
type ICatalogService interface {
	ListApproved(ctx context.Context) ([]models.Agent, error)
	GetAgentDetail(ctx context.Context, agentID string) (*models.AgentDetail, error)
	RelatedAgents(ctx context.Context, agentID string) ([]models.RelatedAgent, models.RelatedSource, error)
	Neighbours(ctx context.Context, agentID string) (*Neighbours, error)
}

type catalogService struct {
	api Requester
}

func NewCatalogService(api Requester) ICatalogService {
	return &catalogService{api: api}
}

// ListApproved returns the publicly visible agents (admin_approved == "yes")
// that have an id, in server order.
func (s *catalogService) ListApproved(ctx context.Context) ([]models.Agent, error) {
	raw, err := s.api.Request(ctx, publicAgentsEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	agents, err := UnwrapList[models.Agent](raw, "agents")
	if err != nil {
		return nil, fmt.Errorf("failed to decode agents: %w", err)
	}
	approved := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if a.AgentID != "" && a.AdminApproved.Approved() {
			approved = append(approved, a)
		}
	}
	return approved, nil
}

// GetAgentDetail returns the detail aggregate, but only when the public list
// shows the agent as approved. Anything else is reported as not found.
func (s *catalogService) GetAgentDetail(ctx context.Context, agentID string) (*models.AgentDetail, error) {
	if agentID == "" {
		return nil, apierr.Validation("", "agent id is required")
	}
	raw, err := s.api.Request(ctx, itemEndpoint(publicAgentsEndpoint, agentID), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	var detail models.AgentDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode agent detail: %w", err)
	}
	if detail.Agent == nil {
		return nil, notFound()
	}

	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range approved {
		if a.AgentID == agentID {
			return &detail, nil
		}
	}
	return nil, notFound()
}

type relatedItem struct {
	AgentID     string `json:"agent_id"`
	AgentName   string `json:"agent_name"`
	Description string `json:"description"`
	DemoPreview string `json:"demo_preview"`
}

func (r relatedItem) toRelated() models.RelatedAgent {
	out := models.RelatedAgent{
		AgentID:     r.AgentID,
		AgentName:   r.AgentName,
		Description: r.Description,
		DemoPreview: r.DemoPreview,
	}
	if out.AgentName == "" {
		out.AgentName = "Agent"
	}
	if out.Description == "" {
		out.Description = "Agent description"
	}
	return out
}

// RelatedAgents prefers the agent's bundle and falls back to similar agents.
// Failures of either lookup are logged and treated as empty.
func (s *catalogService) RelatedAgents(ctx context.Context, agentID string) ([]models.RelatedAgent, models.RelatedSource, error) {
	if agentID == "" {
		return nil, models.RelatedNone, apierr.Validation("", "agent id is required")
	}

	if bundled := s.bundled(ctx, agentID); len(bundled) > 0 {
		return bundled, models.RelatedBundled, nil
	}
	if similar := s.similar(ctx, agentID); len(similar) > 0 {
		return similar, models.RelatedSimilar, nil
	}
	return []models.RelatedAgent{}, models.RelatedNone, nil
}

func (s *catalogService) bundled(ctx context.Context, agentID string) []models.RelatedAgent {
	raw, err := s.api.Request(ctx, itemEndpoint(publicAgentsEndpoint, agentID)+"/bundled", http.MethodGet, nil)
	if err != nil {
		logging.Warnf("bundled agents lookup for %s failed: %v", agentID, err)
		return nil
	}
	var resp struct {
		Success bool `json:"success"`
		Data    *struct {
			BundledAgents []relatedItem `json:"bundled_agents"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		logging.Warnf("bundled agents response for %s undecodable: %v", agentID, err)
		return nil
	}
	if !resp.Success || resp.Data == nil {
		return nil
	}
	out := make([]models.RelatedAgent, 0, len(resp.Data.BundledAgents))
	for _, item := range resp.Data.BundledAgents {
		out = append(out, item.toRelated())
	}
	return out
}

func (s *catalogService) similar(ctx context.Context, agentID string) []models.RelatedAgent {
	q := url.Values{"limit": {fmt.Sprint(RelatedAgentsLimit)}}
	endpoint := itemEndpoint(publicAgentsEndpoint, agentID) + "/similar?" + q.Encode()
	raw, err := s.api.Request(ctx, endpoint, http.MethodGet, nil)
	if err != nil {
		logging.Warnf("similar agents lookup for %s failed: %v", agentID, err)
		return nil
	}
	var resp struct {
		SimilarAgents []relatedItem `json:"similar_agents"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		logging.Warnf("similar agents response for %s undecodable: %v", agentID, err)
		return nil
	}
	out := make([]models.RelatedAgent, 0, len(resp.SimilarAgents))
	for _, item := range resp.SimilarAgents {
		out = append(out, item.toRelated())
	}
	return out
}

// Neighbours walks the approved list as a ring. An agent missing from the
// list is treated as sitting at position 0.
func (s *catalogService) Neighbours(ctx context.Context, agentID string) (*Neighbours, error) {
	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return RingNeighbours(approved, agentID), nil
}

// RingNeighbours computes Neighbours over an already-fetched approved list.
func RingNeighbours(approved []models.Agent, agentID string) *Neighbours {
	n := len(approved)
	if n == 0 {
		return &Neighbours{}
	}
	idx := 0
	for i, a := range approved {
		if a.AgentID == agentID {
			idx = i
			break
		}
	}
	next := approved[(idx+1)%n]
	prev := approved[(idx-1+n)%n]
	return &Neighbours{Prev: &prev, Next: &next}
}

func notFound() *apierr.APIError {
	return &apierr.APIError{Kind: apierr.KindNotFound, Message: MsgAgentUnavailable, Status: http.StatusNotFound}
}
