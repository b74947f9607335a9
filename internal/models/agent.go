package models

// Agent is a listed AI-capability product submitted by an ISV.
type Agent struct {
	AgentID       string   `json:"agent_id"`
	AgentName     string   `json:"agent_name"`
	AssetType     string   `json:"asset_type"`
	Description   string   `json:"description,omitempty"`
	ByPersona     string   `json:"by_persona,omitempty"`
	ByValue       string   `json:"by_value,omitempty"`
	Features      string   `json:"features,omitempty"`
	ROI           string   `json:"roi,omitempty"`
	Tags          string   `json:"tags,omitempty"`
	DemoLink      string   `json:"demo_link,omitempty"`
	DemoPreview   string   `json:"demo_preview,omitempty"`
	ISVID         string   `json:"isv_id"`
	AdminApproved Approval `json:"admin_approved"`
	Ordering      Ordering `json:"agents_ordering"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

// Capability is one capability line on the agent detail page.
type Capability struct {
	SerialID     string `json:"serial_id,omitempty"`
	ByCapability string `json:"by_capability,omitempty"`
}

// Deployment describes where an agent's capability runs.
type Deployment struct {
	ByCapabilityID  string `json:"by_capability_id,omitempty"`
	ServiceID       string `json:"service_id,omitempty"`
	ByCapability    string `json:"by_capability,omitempty"`
	ServiceProvider string `json:"service_provider,omitempty"`
	ServiceName     string `json:"service_name,omitempty"`
	Deployment      string `json:"deployment,omitempty"`
	CloudRegion     string `json:"cloud_region,omitempty"`
	DeploymentID    string `json:"deployment_id,omitempty"`
	CapabilityName  string `json:"capability_name,omitempty"`
}

// DemoAsset is a demo file or link attached to an agent.
type DemoAsset struct {
	DemoAssetLink string `json:"demo_asset_link,omitempty"`
	DemoLink      string `json:"demo_link,omitempty"`
	AssetURL      string `json:"asset_url,omitempty"`
	AssetFilePath string `json:"asset_file_path,omitempty"`
	DemoAssetName string `json:"demo_asset_name,omitempty"`
	DemoAssetType string `json:"demo_asset_type,omitempty"`
	DemoAssetID   string `json:"demo_asset_id,omitempty"`
}

// Documentation holds the SDK/API docs of an agent.
type Documentation struct {
	AgentID         string `json:"agent_id,omitempty"`
	SDKDetails      string `json:"sdk_details,omitempty"`
	SwaggerDetails  string `json:"swagger_details,omitempty"`
	SampleInput     string `json:"sample_input,omitempty"`
	SampleOutput    string `json:"sample_output,omitempty"`
	SecurityDetails string `json:"security_details,omitempty"`
	RelatedFiles    string `json:"related_files,omitempty"`
	DocID           string `json:"doc_id,omitempty"`
}

// AgentDetail is the aggregate returned by GET /api/agents/:id.
type AgentDetail struct {
	Agent         *Agent          `json:"agent"`
	Capabilities  []Capability    `json:"capabilities,omitempty"`
	Deployments   []Deployment    `json:"deployments,omitempty"`
	DemoAssets    []DemoAsset     `json:"demo_assets,omitempty"`
	Documentation []Documentation `json:"documentation,omitempty"`
	ISVInfo       *ISV            `json:"isv_info,omitempty"`
}

// RelatedAgent is the card shown in the related-agents sidebar.
type RelatedAgent struct {
	AgentID     string `json:"agent_id"`
	AgentName   string `json:"agent_name"`
	Description string `json:"description"`
	DemoPreview string `json:"demo_preview"`
}

// RelatedSource tells where related agents came from.
type RelatedSource string

const (
	RelatedNone    RelatedSource = ""
	RelatedBundled RelatedSource = "bundled"
	RelatedSimilar RelatedSource = "similar"
)
