package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Visible          bool     `json:"visible"`
	Pinned           bool     `json:"pinned"`
	Monitor          int      `json:"monitor"`
	MonitorCount     int      `json:"monitor_count"`
	Side             string   `json:"side"`
	ZoomPercent      int      `json:"zoom_percent"`
	RetentionMinutes int      `json:"retention_minutes"`
	ActiveSlot       int      `json:"active_slot"`
	SlotServices     []string `json:"slot_services"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorOutput describes one monitor.
type MonitorOutput struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Selected bool   `json:"selected"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
}

// SetMonitorInput is the input for the set_monitor tool.
type SetMonitorInput struct {
	Monitor int `json:"monitor" jsonschema:"required,Zero-based monitor index to dock the sidebar to"`
}

// SetSideInput is the input for the set_side tool.
type SetSideInput struct {
	Side string `json:"side" jsonschema:"required,Edge to dock to: left or right"`
}

// SetZoomInput is the input for the set_zoom tool.
type SetZoomInput struct {
	Percent int `json:"percent" jsonschema:"required,Page zoom percentage, 50-200"`
}

// SetRetentionInput is the input for the set_retention tool.
type SetRetentionInput struct {
	Minutes int `json:"minutes" jsonschema:"required,Conversation retention window in minutes: 0, 10, or 30"`
}

// TogglePinInput is the input for the toggle_pin tool.
type TogglePinInput struct{}

// TogglePinOutput is the output for the toggle_pin tool.
type TogglePinOutput struct {
	Pinned bool `json:"pinned"`
}

// SwitchSlotInput is the input for the switch_slot tool.
type SwitchSlotInput struct {
	Slot int `json:"slot" jsonschema:"required,Slot index 0-2 to activate"`
}

// SetSlotServiceInput is the input for the set_slot_service tool.
type SetSlotServiceInput struct {
	Slot    int    `json:"slot" jsonschema:"required,Slot index 0-2"`
	Service string `json:"service" jsonschema:"required,Service key from list_services (e.g. chatgpt, claude)"`
}

// ListServicesInput is the input for the list_services tool.
type ListServicesInput struct{}

// ServiceOutput describes one chat service.
type ServiceOutput struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListServicesOutput is the output for the list_services tool.
type ListServicesOutput struct {
	Services []ServiceOutput `json:"services"`
}

// ListPromptsInput is the input for the list_prompts tool.
type ListPromptsInput struct{}

// PromptOutput describes one saved prompt.
type PromptOutput struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	FastAccess bool   `json:"fast_access"`
}

// ListPromptsOutput is the output for the list_prompts tool.
type ListPromptsOutput struct {
	Prompts []PromptOutput `json:"prompts"`
}

// AddPromptInput is the input for the add_prompt tool.
type AddPromptInput struct {
	Name       string `json:"name" jsonschema:"required,Prompt name, up to 150 characters"`
	Content    string `json:"content" jsonschema:"required,Prompt text, up to 2000 characters"`
	FastAccess bool   `json:"fast_access,omitempty" jsonschema:"Show the prompt in the navigation strip for one-click injection"`
}

// AddPromptOutput is the output for the add_prompt tool.
type AddPromptOutput struct {
	ID int `json:"id"`
}

// InjectPromptInput is the input for the inject_prompt tool.
type InjectPromptInput struct {
	ID   int    `json:"id,omitempty" jsonschema:"ID of a saved prompt to inject"`
	Text string `json:"text,omitempty" jsonschema:"Literal text to inject instead of a saved prompt"`
}
