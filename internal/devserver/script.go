package devserver

import (
	"regexp"
	"strings"

	"github.com/openlistings/concierge/internal/protocol"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	listingRe  = regexp.MustCompile(`(?i)\b(home|homes|house|houses|listing|listings|property|bed|beds|bedroom|bedrooms|condo)\b`)
	scheduleRe = regexp.MustCompile(`(?i)\b(schedule|appointment|book|tour|visit|showing)\b`)
	pricingRe  = regexp.MustCompile(`(?i)\b(price|pricing|cost|afford|budget)\b`)
)

const listingReply = `Here are two that match what you described:

[listing link="https://listings.example.com/l/oak-12" image="https://listings.example.com/img/oak-12.jpg" price="450000" address="12 Oak Ln" beds="3" baths="2" sqft="1810"]
[listing link="https://listings.example.com/l/birch-4" image="https://listings.example.com/img/birch-4.jpg" price="$519,900" address="4 Birch Ct" beds="4" baths="3" sqft="2240"]

[img1 src="https://listings.example.com/img/oak-12-porch.jpg" alt="Front porch at 12 Oak Ln"][/img1]

Want to see either of them in person?`

// scriptResult derives a canned chat result from the message so every
// widget code path is reachable against the dev server.
func scriptResult(convID, message string) protocol.ChatResult {
	lowered := strings.ToLower(message)

	switch {
	case emailRe.MatchString(message) || phoneRe.MatchString(message):
		profile := protocol.Profile{Stage: "contact"}
		if email := emailRe.FindString(message); email != "" {
			profile.ContactEmail = email
		}
		if phone := phoneRe.FindString(message); phone != "" {
			profile.ContactPhone = phone
		}
		return protocol.ChatResult{
			ConversationID: convID,
			Reply:          "Perfect, we have what we need. Someone from the team will reach out shortly!",
			Routing: protocol.Routing{
				Intent:      "book",
				LeadCapture: "no",
				Urgency:     "high",
				Summary:     "left contact details in chat",
			},
			Profile:      profile,
			LeadCaptured: true,
		}

	case scheduleRe.MatchString(lowered):
		return protocol.ChatResult{
			ConversationID: convID,
			Reply:          "Happy to set that up. What day works best for you?",
			Routing: protocol.Routing{
				Intent:      "book",
				LeadCapture: "yes",
				Urgency:     "high",
				Summary:     "wants to schedule a showing",
			},
			Profile: protocol.Profile{Stage: "schedule"},
		}

	case listingRe.MatchString(lowered):
		return protocol.ChatResult{
			ConversationID: convID,
			Reply:          listingReply,
			Routing: protocol.Routing{
				Intent:      "search",
				LeadCapture: "no",
				Urgency:     "unknown",
				Summary:     "browsing listings",
			},
			Profile: protocol.Profile{Stage: "discovery"},
		}

	case pricingRe.MatchString(lowered):
		return protocol.ChatResult{
			ConversationID: convID,
			Reply:          "Pricing depends on the property. Tell me which one caught your eye and I'll pull the details.",
			Routing: protocol.Routing{
				Intent:      "pricing",
				LeadCapture: "no",
				Urgency:     "unknown",
				Summary:     "asking about pricing",
			},
			Profile: protocol.Profile{Stage: "discovery"},
		}

	default:
		return protocol.ChatResult{
			ConversationID: convID,
			Reply:          "Thanks for reaching out! I can search listings, share photos, and set up showings. What are you looking for?",
			Routing: protocol.Routing{
				Intent:      "other",
				LeadCapture: "no",
				Urgency:     "unknown",
			},
			Profile: protocol.Profile{Stage: "discovery"},
		}
	}
}
