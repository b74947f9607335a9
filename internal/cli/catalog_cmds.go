package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/content"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/tasks"
)

// agentView is the rendered agent detail page.
type agentView struct {
	Agent      *models.Agent         `json:"agent"`
	Features   content.Sections      `json:"features"`
	ROI        content.Sections      `json:"roi"`
	Tags       []string              `json:"tags"`
	Previews   []string              `json:"previews"`
	ISV        *models.ISV           `json:"isv,omitempty"`
	Related    []models.RelatedAgent `json:"related"`
	RelatedVia models.RelatedSource  `json:"related_source,omitempty"`
	Prev       string                `json:"prev,omitempty"`
	Next       string                `json:"next,omitempty"`
}

func newAgentCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agent <agent-id>",
		Short: "Show the public detail page of an approved agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.printer(cmd)
			if err := p.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			catalog := services.NewCatalogService(a.client)

			detail, err := catalog.GetAgentDetail(ctx, args[0])
			if err != nil {
				return errors.New(apierr.Message(err, services.MsgAgentUnavailable))
			}
			ag := detail.Agent
			view := agentView{
				Agent:    ag,
				Features: content.ParseSections(ag.Features),
				ROI:      content.ParseSections(ag.ROI),
				Tags:     content.Tags(ag.Tags),
				Previews: content.PreviewURLs(ag.DemoPreview),
				ISV:      detail.ISVInfo,
			}
			view.Related, view.RelatedVia, err = catalog.RelatedAgents(ctx, ag.AgentID)
			if err != nil {
				return err
			}
			if n, err := catalog.Neighbours(ctx, ag.AgentID); err == nil {
				if n.Prev != nil {
					view.Prev = n.Prev.AgentID
				}
				if n.Next != nil {
					view.Next = n.Next.AgentID
				}
			}

			if ok, err := p.structured(view); ok {
				return err
			}
			printAgent(p, view)
			return nil
		},
	}
}

func printAgent(p *printer, v agentView) {
	p.line("%s  %s  %s", headerStyle.Render(v.Agent.AgentName), dimStyle.Render(v.Agent.AssetType), badge(v.Agent.AdminApproved))
	if v.Agent.Description != "" {
		p.line("%s", v.Agent.Description)
	}
	printSections(p, "Features", v.Features)
	printSections(p, "ROI", v.ROI)
	if len(v.Tags) > 0 {
		p.line("Tags: %s", strings.Join(v.Tags, ", "))
	}
	if v.ISV != nil {
		p.line("ISV: %s <%s>", v.ISV.ISVName, v.ISV.ISVEmail)
	}
	for _, u := range v.Previews {
		p.line("Preview: %s", u)
	}
	if len(v.Related) > 0 {
		p.line("%s", headerStyle.Render(fmt.Sprintf("Related (%s)", v.RelatedVia)))
		for _, r := range v.Related {
			p.line("  %s  %s", r.AgentID, r.AgentName)
		}
	}
	if v.Prev != "" || v.Next != "" {
		p.line("%s", dimStyle.Render(fmt.Sprintf("prev: %s  next: %s", v.Prev, v.Next)))
	}
}

func printSections(p *printer, title string, s content.Sections) {
	if len(s.Scope) == 0 && len(s.Instructions) == 0 {
		return
	}
	p.line("%s", headerStyle.Render(title))
	for _, item := range s.Scope {
		p.line("  - %s", item)
	}
	for i, item := range s.Instructions {
		p.line("  %d. %s", i+1, item)
	}
}

func newWarmCommand(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "warm-cache",
		Short: "Queue preview images of approved agents for the image proxy cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.RedisAddr == "" {
				return errors.New("warm-cache needs REDIS_ADDR")
			}
			if a.rdb == nil {
				rdb, err := cache.ConnectRedis(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
				if err != nil {
					return err
				}
				a.rdb = rdb
			}
			if a.queue == nil {
				a.queue = tasks.NewClient(a.rdb)
			}

			approved, err := services.NewCatalogService(a.client).ListApproved(cmd.Context())
			if err != nil {
				return errors.New(apierr.Message(err, "Failed to fetch agents"))
			}
			var urls []string
			for _, ag := range approved {
				urls = append(urls, content.PreviewURLs(ag.DemoPreview)...)
			}
			n, err := tasks.EnqueueAssetWarm(cmd.Context(), a.queue, urls, width)
			a.printer(cmd).line("queued %d of %d preview images", n, len(urls))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Also warm a resized variant of this width")
	return cmd
}
