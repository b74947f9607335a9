package filter

import (
	"fmt"
	"strings"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// AgentParams are the agent tab filters.
type AgentParams struct {
	Search    string
	Status    Status
	AssetType string
}

// Agents filters by name/asset_type/isv_id search, approval and asset type.
func Agents(items []models.Agent, p AgentParams) []models.Agent {
	return Apply(items,
		Search(p.Search, func(a models.Agent) []*string {
			return []*string{ptr(a.AgentName), ptr(a.AssetType), ptr(a.ISVID)}
		}),
		ByApproval(p.Status, func(a models.Agent) models.Approval { return a.AdminApproved }),
		Equals(p.AssetType, func(a models.Agent) string { return a.AssetType }),
	)
}

// ISVParams are the ISV tab filters.
type ISVParams struct {
	Search string
	Status Status
}

// ISVs filters by name/email/id search and approval.
func ISVs(items []models.ISV, p ISVParams) []models.ISV {
	return Apply(items,
		Search(p.Search, func(i models.ISV) []*string {
			return []*string{ptr(i.ISVName), ptr(i.ISVEmail), ptr(i.ISVID)}
		}),
		ByApproval(p.Status, func(i models.ISV) models.Approval { return i.AdminApproved }),
	)
}

// ResellerParams are the reseller tab filters.
type ResellerParams struct {
	Search string
	Status Status
}

// Resellers filters by name/email/id search and approval.
func Resellers(items []models.Reseller, p ResellerParams) []models.Reseller {
	return Apply(items,
		Search(p.Search, func(r models.Reseller) []*string {
			return []*string{ptr(r.ResellerName), ptr(r.ResellerEmail), ptr(r.ResellerID)}
		}),
		ByApproval(p.Status, func(r models.Reseller) models.Approval { return r.AdminApproved }),
	)
}

// EnquiryParams are the enquiry tab filters. Status is all, new or read;
// UserType is all or one of the enquiry user types.
type EnquiryParams struct {
	Search   string
	Status   string
	UserType string
}

// Enquiries filters by name/email/company/message search, read state and user type.
// "read" means anything that is not new.
func Enquiries(items []models.Enquiry, p EnquiryParams) []models.Enquiry {
	var byStatus Predicate[models.Enquiry]
	switch models.EnquiryStatus(p.Status) {
	case models.EnquiryNew:
		byStatus = func(e models.Enquiry) bool { return e.Status == models.EnquiryNew }
	case models.EnquiryRead:
		byStatus = func(e models.Enquiry) bool { return e.Status != models.EnquiryNew }
	}

	return Apply(items,
		Search(p.Search, func(e models.Enquiry) []*string {
			return []*string{e.FullName, e.Email, e.CompanyName, e.Message}
		}),
		byStatus,
		Equals(p.UserType, func(e models.Enquiry) string { return string(e.UserType) }),
	)
}

// ParseEnquiryStatus accepts "", "all", "new" and "read".
func ParseEnquiryStatus(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", All:
		return All, nil
	case string(models.EnquiryNew), string(models.EnquiryRead):
		return v, nil
	}
	return "", fmt.Errorf("invalid enquiry status filter %q (want all, new or read)", s)
}

// ParseUserType accepts "", "all" and the enquiry user types.
func ParseUserType(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", All:
		return All, nil
	case string(models.UserTypeClient), string(models.UserTypeISV), string(models.UserTypeReseller), string(models.UserTypeAnonymous):
		return v, nil
	}
	return "", fmt.Errorf("invalid user type filter %q", s)
}
