package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// IAgentService defines admin operations on agents.
type IAgentService interface {
	FetchAll(ctx context.Context) ([]models.Agent, error)
	Update(ctx context.Context, agent models.Agent, changes map[string]string) error
	SetApproval(ctx context.Context, agent models.Agent, approval models.Approval) error
}

type agentService struct {
	api Requester
}

// NewAgentService creates a new AgentService.
func NewAgentService(api Requester) IAgentService {
	return &agentService{api: api}
}

// FetchAll returns every agent, approved or not, in server order.
func (s *agentService) FetchAll(ctx context.Context) ([]models.Agent, error) {
	raw, err := s.api.Request(ctx, adminAgentsEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	agents, err := UnwrapList[models.Agent](raw, "agents")
	if err != nil {
		return nil, fmt.Errorf("failed to decode agents: %w", err)
	}
	return agents, nil
}

// Update writes changes on top of the agent's identifying fields. The backend
// overwrites rather than merges, so the name always travels with the change.
func (s *agentService) Update(ctx context.Context, agent models.Agent, changes map[string]string) error {
	if agent.AgentID == "" {
		return fmt.Errorf("agent id is required")
	}
	fields := withIdentity(changes, map[string]string{"agent_name": agent.AgentName})
	_, err := s.api.Request(ctx, itemEndpoint(adminAgentsEndpoint, agent.AgentID), http.MethodPut, client.Form(fields))
	return err
}

func (s *agentService) SetApproval(ctx context.Context, agent models.Agent, approval models.Approval) error {
	return s.Update(ctx, agent, map[string]string{"admin_approved": string(approval)})
}
