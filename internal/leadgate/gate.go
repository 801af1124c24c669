// Package leadgate decides whether the contact-capture form should be
// shown for the current turn. The decision is a pure function of the
// turn's routing signal, the latest profile, and two session flags; it is
// re-evaluated every turn, and the suppression rules are what make it
// effectively single-shot per session.
package leadgate

import "github.com/openlistings/concierge/internal/protocol"

// GenericSummary is shown on the form when neither the routing signal nor
// the profile carries a summary.
const GenericSummary = "Share the best way to reach you and we'll follow up shortly."

// Contact method defaults offered on the form.
const (
	MethodText  = "text"
	MethodEmail = "email"
)

// Inputs carries everything the gate looks at.
type Inputs struct {
	Routing       protocol.Routing
	Profile       protocol.Profile
	FormVisible   bool
	LeadSubmitted bool
}

// Decision is the gate's verdict. Prefill is only meaningful when Show is
// true.
type Decision struct {
	Show    bool
	Prefill Prefill
}

// Prefill holds the form defaults. Locked fields are shown read-only
// because the backend already has that value on file.
type Prefill struct {
	Name        string
	Email       string
	Phone       string
	EmailLocked bool
	PhoneLocked bool
	Method      string
	Summary     string
}

var highIntent = map[string]bool{
	"book":    true,
	"buy":     true,
	"pricing": true,
}

// Decide reports whether the lead form should appear now and with what
// defaults. Suppression takes precedence over every fire condition.
func Decide(in Inputs) Decision {
	if in.FormVisible || in.LeadSubmitted || in.Profile.HasContact() {
		return Decision{}
	}

	stage := in.Profile.Stage
	fire := in.Routing.LeadCapture == "yes" ||
		((stage == "contact" || stage == "schedule") && !in.LeadSubmitted) ||
		highIntent[in.Routing.Intent] ||
		in.Profile.ProductName != "" ||
		in.Profile.RequestedDate != ""
	if !fire {
		return Decision{}
	}

	return Decision{Show: true, Prefill: buildPrefill(in)}
}

func buildPrefill(in Inputs) Prefill {
	p := Prefill{
		Name:        in.Profile.ContactName,
		Email:       in.Profile.ContactEmail,
		Phone:       in.Profile.ContactPhone,
		EmailLocked: in.Profile.ContactEmail != "",
		PhoneLocked: in.Profile.ContactPhone != "",
		Method:      MethodEmail,
		Summary:     GenericSummary,
	}
	if in.Profile.ContactPhone != "" {
		p.Method = MethodText
	}
	if in.Routing.Summary != "" {
		p.Summary = in.Routing.Summary
	} else if in.Profile.Summary != "" {
		p.Summary = in.Profile.Summary
	}
	return p
}
