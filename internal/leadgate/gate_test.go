package leadgate

import (
	"testing"

	"github.com/openlistings/concierge/internal/protocol"
)

func TestDecideFireConditions(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want bool
	}{
		{
			name: "routing lead_capture yes",
			in:   Inputs{Routing: protocol.Routing{LeadCapture: "yes"}},
			want: true,
		},
		{
			name: "contact stage",
			in:   Inputs{Profile: protocol.Profile{Stage: "contact"}},
			want: true,
		},
		{
			name: "schedule stage",
			in:   Inputs{Profile: protocol.Profile{Stage: "schedule"}},
			want: true,
		},
		{
			name: "high intent book",
			in:   Inputs{Routing: protocol.Routing{Intent: "book"}},
			want: true,
		},
		{
			name: "high intent pricing",
			in:   Inputs{Routing: protocol.Routing{Intent: "pricing"}},
			want: true,
		},
		{
			name: "product interest",
			in:   Inputs{Profile: protocol.Profile{ProductName: "12 Oak Ln"}},
			want: true,
		},
		{
			name: "requested date",
			in:   Inputs{Profile: protocol.Profile{RequestedDate: "next Tuesday"}},
			want: true,
		},
		{
			name: "search intent alone does not fire",
			in:   Inputs{Routing: protocol.Routing{Intent: "search", LeadCapture: "no"}},
			want: false,
		},
		{
			name: "empty turn does not fire",
			in:   Inputs{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.in).Show; got != tt.want {
				t.Errorf("Decide().Show = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideSuppression(t *testing.T) {
	// All three fire conditions present; each suppression must still win.
	hot := func() Inputs {
		return Inputs{
			Routing: protocol.Routing{LeadCapture: "yes", Intent: "buy"},
			Profile: protocol.Profile{Stage: "contact", ProductName: "12 Oak Ln"},
		}
	}

	t.Run("form already visible", func(t *testing.T) {
		in := hot()
		in.FormVisible = true
		if Decide(in).Show {
			t.Error("gate fired while the form is already visible")
		}
	})

	t.Run("lead already submitted", func(t *testing.T) {
		in := hot()
		in.LeadSubmitted = true
		if Decide(in).Show {
			t.Error("gate fired after a lead was submitted")
		}
	})

	t.Run("email already on file", func(t *testing.T) {
		in := hot()
		in.Profile.ContactEmail = "visitor@example.com"
		if Decide(in).Show {
			t.Error("gate fired with a contact email on file")
		}
	})

	t.Run("phone already on file", func(t *testing.T) {
		in := hot()
		in.Profile.ContactPhone = "+15551234567"
		if Decide(in).Show {
			t.Error("gate fired with a contact phone on file")
		}
	})
}

func TestDecidePrefill(t *testing.T) {
	t.Run("method defaults to email", func(t *testing.T) {
		d := Decide(Inputs{Routing: protocol.Routing{LeadCapture: "yes"}})
		if !d.Show {
			t.Fatal("expected gate to fire")
		}
		if d.Prefill.Method != MethodEmail {
			t.Errorf("expected method %q, got %q", MethodEmail, d.Prefill.Method)
		}
		if d.Prefill.Summary != GenericSummary {
			t.Errorf("expected generic summary, got %q", d.Prefill.Summary)
		}
	})

	t.Run("summary prefers routing over profile", func(t *testing.T) {
		d := Decide(Inputs{
			Routing: protocol.Routing{LeadCapture: "yes", Summary: "wants a tour"},
			Profile: protocol.Profile{Summary: "browsing"},
		})
		if d.Prefill.Summary != "wants a tour" {
			t.Errorf("expected routing summary, got %q", d.Prefill.Summary)
		}
	})

	t.Run("profile summary as fallback", func(t *testing.T) {
		d := Decide(Inputs{
			Routing: protocol.Routing{LeadCapture: "yes"},
			Profile: protocol.Profile{Summary: "browsing"},
		})
		if d.Prefill.Summary != "browsing" {
			t.Errorf("expected profile summary, got %q", d.Prefill.Summary)
		}
	})

	t.Run("name carried from profile", func(t *testing.T) {
		d := Decide(Inputs{
			Routing: protocol.Routing{LeadCapture: "yes"},
			Profile: protocol.Profile{ContactName: "Sam Field"},
		})
		if d.Prefill.Name != "Sam Field" {
			t.Errorf("expected prefilled name, got %q", d.Prefill.Name)
		}
	})
}
