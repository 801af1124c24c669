// Package lead defines the contact-capture payload shared by the session
// controller, the backend client, and the dev server intake.
package lead

import "strings"

// Submission is the payload posted to /api/lead. Intent, urgency, and
// summary come from the turn's routing signal; the rest from the form.
type Submission struct {
	BusinessID     string `json:"business_id,omitempty"`
	ConversationID string `json:"conversation_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ContactMethod  string `json:"contact_method"`
	PreferredTime  string `json:"preferred_time,omitempty"`
	Intent         string `json:"intent"`
	Urgency        string `json:"urgency,omitempty"`
	Summary        string `json:"summary"`
	SheetID        string `json:"sheet_id,omitempty"`
}

// Validate enforces the client-side preconditions: a name plus at least
// one of email or phone. Violations block submission before any network
// call is made.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(s.Email) == "" && strings.TrimSpace(s.Phone) == "" {
		return ErrMissingContact
	}
	return nil
}
