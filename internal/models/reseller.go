package models

// Reseller is a partner that resells listed agents.
type Reseller struct {
	ResellerID        string   `json:"reseller_id"`
	ResellerName      string   `json:"reseller_name"`
	ResellerEmail     string   `json:"reseller_email_no"`
	ResellerMobile    string   `json:"reseller_mob_no,omitempty"`
	ResellerAddress   string   `json:"reseller_address,omitempty"`
	WhitelistedDomain string   `json:"whitelisted_domain,omitempty"`
	AdminApproved     Approval `json:"admin_approved"`
}
