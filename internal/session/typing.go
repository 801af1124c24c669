package session

import (
	"math/rand"
	"regexp"
	"sync"
)

// Category buckets an outgoing message so the working indicator can show
// phrasing that matches what the visitor asked about. The phrase itself is
// cosmetic; tests assert only the category.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryListings
	CategoryScheduling
	CategoryContact
)

var (
	listingsRe   = regexp.MustCompile(`(?i)\b(home|homes|house|houses|listing|listings|property|properties|condo|bed|beds|bedroom|bedrooms|bath|baths|sqft|market|neighborhood)\b`)
	schedulingRe = regexp.MustCompile(`(?i)\b(schedule|appointment|book|booking|tour|visit|showing|available|availability|when|time|tomorrow|weekend)\b`)
	contactRe    = regexp.MustCompile(`(?i)\b(call|phone|email|text|contact|reach)\b`)
)

// Categorize matches the message against keyword groups, listings first.
func Categorize(text string) Category {
	switch {
	case listingsRe.MatchString(text):
		return CategoryListings
	case schedulingRe.MatchString(text):
		return CategoryScheduling
	case contactRe.MatchString(text):
		return CategoryContact
	default:
		return CategoryGeneral
	}
}

// PhraseSource supplies the working-indicator phrase for a category.
type PhraseSource interface {
	Phrase(c Category) string
}

var phrases = map[Category][]string{
	CategoryGeneral: {
		"Typing...",
		"One moment...",
		"Thinking that over...",
	},
	CategoryListings: {
		"Searching the listings...",
		"Pulling up matching homes...",
		"Checking what's on the market...",
	},
	CategoryScheduling: {
		"Checking the calendar...",
		"Looking at available times...",
	},
	CategoryContact: {
		"Pulling up contact options...",
		"Getting the details together...",
	},
}

type randomPhrases struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPhrases returns the default source: a random phrase from the
// matched category.
func NewRandomPhrases() PhraseSource {
	return &randomPhrases{rng: rand.New(rand.NewSource(rand.Int63()))}
}

func (p *randomPhrases) Phrase(c Category) string {
	options := phrases[c]
	if len(options) == 0 {
		options = phrases[CategoryGeneral]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return options[p.rng.Intn(len(options))]
}
