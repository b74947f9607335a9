package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/content"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/filter"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/tasks"
)

const enquiryMessageWidth = 100

var resourceNames = []string{"agents", "isvs", "resellers", "enquiries"}

// dashboard builds the admin dashboard. Mutations are logged and, when redis
// is configured, queued for the audit trail.
func (a *app) dashboard() *admin.Dashboard {
	notifiers := admin.MultiNotifier{admin.LogNotifier{}}
	if a.cfg.RedisAddr != "" {
		if a.rdb == nil {
			rdb, err := cache.ConnectRedis(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
			if err != nil {
				logging.Warnf("audit trail disabled: %v", err)
			} else {
				a.rdb = rdb
			}
		}
		if a.rdb != nil {
			if a.queue == nil {
				a.queue = tasks.NewClient(a.rdb)
			}
			notifiers = append(notifiers, tasks.NewAuditNotifier(a.queue))
		}
	}
	return admin.NewDashboard(admin.Services{
		Agents:    services.NewAgentService(a.client),
		ISVs:      services.NewISVService(a.client),
		Resellers: services.NewResellerService(a.client),
		Enquiries: services.NewEnquiryService(a.client),
	}, notifiers)
}

type listOptions struct {
	search        string
	status        string
	assetType     string
	enquiryStatus string
	userType      string
	page          int
	perPage       int
}

func newListCommand(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:       "list <agents|isvs|resellers|enquiries>",
		Short:     "Fetch, filter and page one admin collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := models.ParseResource(args[0])
			if err != nil {
				return err
			}
			status, err := filter.ParseStatus(opts.status)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			if err := p.validate(); err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}

			dash := a.dashboard()
			if err := dash.Activate(cmd.Context(), resource); err != nil {
				return fmt.Errorf("%s (retry with the same command)", apierr.Message(err, "Failed to fetch "+string(resource)))
			}

			now := time.Now()
			switch resource {
			case models.ResourceAgents:
				items := filter.Agents(dash.Agents.Items(), filter.AgentParams{Search: opts.search, Status: status, AssetType: opts.assetType})
				page := filter.Paginate(items, opts.page, opts.perPage)
				if ok, err := p.structured(page); ok {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, ag := range page.Items {
					rows = append(rows, []string{ag.AgentID, ag.AgentName, ag.AssetType, ag.ISVID, badge(ag.AdminApproved), content.RelativeTime(ag.CreatedAt, now)})
				}
				if err := p.table([]string{"ID", "NAME", "TYPE", "ISV", "STATUS", "CREATED"}, rows); err != nil {
					return err
				}
				printFooter(p, page.Start, page.End, page.Total, page.Page, page.TotalPages)
			case models.ResourceISVs:
				items := filter.ISVs(dash.ISVs.Items(), filter.ISVParams{Search: opts.search, Status: status})
				page := filter.Paginate(items, opts.page, opts.perPage)
				if ok, err := p.structured(page); ok {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, isv := range page.Items {
					agents := fmt.Sprintf("%d/%d", isv.ApprovedAgentCount, isv.AgentCount)
					rows = append(rows, []string{isv.ISVID, isv.ISVName, isv.ISVEmail, agents, badge(isv.AdminApproved)})
				}
				if err := p.table([]string{"ID", "NAME", "EMAIL", "AGENTS", "STATUS"}, rows); err != nil {
					return err
				}
				printFooter(p, page.Start, page.End, page.Total, page.Page, page.TotalPages)
			case models.ResourceResellers:
				items := filter.Resellers(dash.Resellers.Items(), filter.ResellerParams{Search: opts.search, Status: status})
				page := filter.Paginate(items, opts.page, opts.perPage)
				if ok, err := p.structured(page); ok {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, r := range page.Items {
					rows = append(rows, []string{r.ResellerID, r.ResellerName, r.ResellerEmail, r.WhitelistedDomain, badge(r.AdminApproved)})
				}
				if err := p.table([]string{"ID", "NAME", "EMAIL", "DOMAIN", "STATUS"}, rows); err != nil {
					return err
				}
				printFooter(p, page.Start, page.End, page.Total, page.Page, page.TotalPages)
			case models.ResourceEnquiries:
				enquiryStatus, err := filter.ParseEnquiryStatus(opts.enquiryStatus)
				if err != nil {
					return err
				}
				userType, err := filter.ParseUserType(opts.userType)
				if err != nil {
					return err
				}
				items := filter.Enquiries(dash.Enquiries.Items(), filter.EnquiryParams{Search: opts.search, Status: enquiryStatus, UserType: userType})
				page := filter.Paginate(items, opts.page, opts.perPage)
				if ok, err := p.structured(page); ok {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, e := range page.Items {
					msg := "-"
					if e.Message != nil && *e.Message != "" {
						msg = content.Truncate(*e.Message, enquiryMessageWidth)
					}
					rows = append(rows, []string{e.EnquiryID, orDash(e.FullName), orDash(e.CompanyName), string(e.UserType), string(e.Status), msg, content.RelativeTime(e.CreatedAt, now)})
				}
				if err := p.table([]string{"ID", "NAME", "COMPANY", "TYPE", "STATUS", "MESSAGE", "CREATED"}, rows); err != nil {
					return err
				}
				printFooter(p, page.Start, page.End, page.Total, page.Page, page.TotalPages)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "q", "", "Case-insensitive search term")
	f.StringVar(&opts.status, "status", "all", "Approval filter: all, approved or pending")
	f.StringVar(&opts.assetType, "asset-type", "", "Agents only: exact asset type")
	f.StringVar(&opts.enquiryStatus, "enquiry-status", "all", "Enquiries only: all, new or read")
	f.StringVar(&opts.userType, "user-type", "all", "Enquiries only: all, client, isv, reseller or anonymous")
	f.IntVar(&opts.page, "page", 1, "Page number")
	f.IntVar(&opts.perPage, "per-page", filter.DefaultPerPage, "Items per page")
	return cmd
}

func printFooter(p *printer, start, end, total, page, pages int) {
	if total == 0 {
		p.line("%s", dimStyle.Render("no matching records"))
		return
	}
	p.line("%s", dimStyle.Render(fmt.Sprintf("Showing %d-%d of %d (page %d/%d)", start, end, total, page, pages)))
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Load every collection and show totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.printer(cmd)
			if err := p.validate(); err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			dash := a.dashboard()
			loadErr := dash.LoadAll(cmd.Context())
			stats := dash.Stats()
			if ok, err := p.structured(stats); ok {
				if err != nil {
					return err
				}
				return loadErr
			}
			rows := [][]string{
				{"agents", strconv.Itoa(stats.Agents), strconv.Itoa(stats.AgentsPending) + " pending"},
				{"isvs", strconv.Itoa(stats.ISVs), strconv.Itoa(stats.ISVsPending) + " pending"},
				{"resellers", strconv.Itoa(stats.Resellers), strconv.Itoa(stats.ResellersPending) + " pending"},
				{"enquiries", strconv.Itoa(stats.Enquiries), strconv.Itoa(stats.EnquiriesNew) + " new"},
			}
			if err := p.table([]string{"COLLECTION", "TOTAL", "OPEN"}, rows); err != nil {
				return err
			}
			if loadErr != nil {
				p.line("%s", errorStyle.Render(apierr.Message(loadErr, "Some collections failed to load")))
			}
			return loadErr
		},
	}
}

func mutableResource(arg string) (models.Resource, error) {
	resource, err := models.ParseResource(arg)
	if err != nil {
		return "", err
	}
	if resource == models.ResourceEnquiries {
		return "", errors.New("enquiries cannot be modified")
	}
	return resource, nil
}

// reportMutation prints the outcome; a failed write is returned as the error.
func (a *app) reportMutation(cmd *cobra.Command, m *admin.Mutation, err error) error {
	if m == nil {
		return err
	}
	p := a.printer(cmd)
	out := struct {
		Success      bool   `json:"success"`
		MutationID   string `json:"mutation_id"`
		Message      string `json:"message"`
		RefreshError string `json:"refresh_error,omitempty"`
	}{Success: err == nil, MutationID: m.ID, Message: m.Message()}
	if rerr := m.RefreshErr(); rerr != nil {
		out.RefreshError = apierr.Message(rerr, "Failed to refresh")
	}
	if ok, perr := p.structured(out); ok {
		if perr != nil {
			return perr
		}
		return err
	}
	if err != nil {
		return errors.New(m.Message())
	}
	p.line("%s", approvedStyle.Render(m.Message()))
	if out.RefreshError != "" {
		p.line("%s", errorStyle.Render("list refresh failed: "+out.RefreshError))
	}
	return nil
}

func newApproveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <agents|isvs|resellers> <id>",
		Short: "Approve a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := mutableResource(args[0])
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			m, err := a.dashboard().Approve(cmd.Context(), resource, args[1])
			return a.reportMutation(cmd, m, err)
		},
	}
}

func newRejectCommand(a *app) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "reject <agents|isvs|resellers> <id>",
		Short: "Reject a record",
		Long:  "Reject a record. The reason is kept in the audit trail only.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := mutableResource(args[0])
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			m, err := a.dashboard().Reject(cmd.Context(), resource, args[1], admin.WithReason(reason))
			return a.reportMutation(cmd, m, err)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the record is rejected")
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var fields map[string]string
	cmd := &cobra.Command{
		Use:     "edit <agents|isvs|resellers> <id>",
		Short:   "Change fields of a record",
		Example: `  backoffice edit agents agent_42 --set asset_type=Solution --set demo_link=https://example.com/demo`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := mutableResource(args[0])
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return errors.New("nothing to change; pass at least one --set key=value")
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logging.Debugf("editing %s %s: %v", resource, args[1], keys)
			m, err := a.dashboard().Edit(cmd.Context(), resource, args[1], fields)
			return a.reportMutation(cmd, m, err)
		},
	}
	cmd.Flags().StringToStringVar(&fields, "set", nil, "Field to change as key=value (repeatable)")
	return cmd
}

func newBulkUploadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-upload <file.csv|file.xlsx|file.xls>",
		Short: "Upload a spreadsheet of agents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			uploads := services.NewBulkUploadService(a.client, a.cfg.BulkUploadMaxBytes())
			contentType := mime.TypeByExtension(filepath.Ext(path))
			res, err := uploads.Upload(cmd.Context(), filepath.Base(path), contentType, info.Size(), f)
			if err != nil {
				return errors.New(apierr.Message(err, "Upload failed"))
			}

			p := a.printer(cmd)
			if ok, perr := p.structured(res); ok {
				return perr
			}
			msg := res.Message
			if msg == "" {
				msg = "Upload complete"
			}
			p.line("%s (%s)", approvedStyle.Render(msg), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
}
