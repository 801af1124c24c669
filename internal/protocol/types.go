// Package protocol defines the wire types exchanged with the concierge
// backend and a decoder for its newline-delimited JSON chat stream.
package protocol

// Event type values the backend emits. Anything else is passed through to
// the caller uninterpreted so newer backends stay compatible.
const (
	EventStatus = "status"
	EventResult = "result"
	EventError  = "error"
)

// Event is one element of the chat response stream.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    *ChatResult `json:"data,omitempty"`
}

// ChatResult is the terminal payload of a chat turn.
type ChatResult struct {
	ConversationID string  `json:"conversation_id"`
	Reply          string  `json:"reply"`
	Routing        Routing `json:"routing"`
	Profile        Profile `json:"profile"`
	LeadCaptured   bool    `json:"lead_captured"`
}

// Routing is the backend's per-turn hint about visitor intent. It is
// consumed once per turn and never stored durably.
type Routing struct {
	Intent      string `json:"intent"`
	LeadCapture string `json:"lead_capture"`
	Urgency     string `json:"urgency"`
	Stage       string `json:"stage,omitempty"`
	NextStep    string `json:"next_step,omitempty"`
	Summary     string `json:"summary"`
}

// Profile is the backend's cumulative snapshot of what it knows about the
// visitor. Each turn's profile fully replaces the previous one.
type Profile struct {
	Stage           string `json:"stage,omitempty"`
	ContactName     string `json:"contact_name,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	ProductSKU      string `json:"product_sku,omitempty"`
	RequestedDate   string `json:"requested_date,omitempty"`
	ConsultType     string `json:"consult_type,omitempty"`
	InventoryStatus string `json:"inventory_status,omitempty"`
	Budget          string `json:"budget,omitempty"`
	Summary         string `json:"summary,omitempty"`
	Intent          string `json:"intent,omitempty"`
	Urgency         string `json:"urgency,omitempty"`
}

// HasContact reports whether the backend already has a way to reach the
// visitor.
func (p Profile) HasContact() bool {
	return p.ContactEmail != "" || p.ContactPhone != ""
}
