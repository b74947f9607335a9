package models

// ISV is an Independent Software Vendor that submits agents.
type ISV struct {
	ISVID              string   `json:"isv_id"`
	ISVName            string   `json:"isv_name"`
	ISVEmail           string   `json:"isv_email_no"`
	ISVMobile          string   `json:"isv_mob_no,omitempty"`
	ISVAddress         string   `json:"isv_address,omitempty"`
	ISVDomain          string   `json:"isv_domain,omitempty"`
	MOUFilePath        string   `json:"mou_file_path,omitempty"`
	AgentCount         FlexInt  `json:"agent_count"`
	ApprovedAgentCount FlexInt  `json:"approved_agent_count"`
	AdminApproved      Approval `json:"admin_approved"`
}

// CountsConsistent checks approved_agent_count <= agent_count. The counters
// belong to the server and are only ever replaced by a refetch.
func (i ISV) CountsConsistent() bool {
	return i.ApprovedAgentCount >= 0 && i.ApprovedAgentCount <= i.AgentCount
}
