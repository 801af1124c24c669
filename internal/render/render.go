// Package render parses assistant reply text into inert structured content.
// Rich content arrives embedded in the text as bracketed tags; parsing them
// into typed values keeps the display layer free of raw markup.
package render

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxImages caps how many images a single message may carry. Tags beyond
// the cap are stripped from the text and not rendered.
const MaxImages = 5

// Placeholders used when a field is missing or an image fails to load.
const (
	PlaceholderImage   = "https://placehold.co/600x400?text=Photo+Unavailable"
	PlaceholderAlt     = "Photo unavailable"
	PlaceholderPrice   = "Contact for Price"
	PlaceholderStat    = "?"
	PlaceholderAddress = "Address Unavailable"
)

// Message is the structured form of one assistant reply.
type Message struct {
	Paragraphs []string
	Listings   []ListingCard
	Images     []Image
}

// Image is a captioned image reference extracted from an [imgN] tag.
type Image struct {
	Src string
	Alt string
}

// ListingCard is a clickable property card extracted from a [listing] tag.
// Price is already formatted for display.
type ListingCard struct {
	Link    string
	Image   string
	Price   string
	Address string
	Beds    string
	Baths   string
	Sqft    string
}

var (
	imageTagRe   = regexp.MustCompile(`(?is)\[img([1-5])((?:\s+[a-z]+="[^"]*")*)\s*\](.*?)\[/img([1-5])\]`)
	listingTagRe = regexp.MustCompile(`(?is)\[listing((?:\s+[a-z]+="[^"]*")*)\s*\]`)
	attrRe       = regexp.MustCompile(`([a-z]+)="([^"]*)"`)
)

// Parse extracts image and listing tags from reply text and splits what
// remains into paragraphs. The output never contains executable markup.
func Parse(reply string) Message {
	var msg Message

	text := imageTagRe.ReplaceAllStringFunc(reply, func(tag string) string {
		m := imageTagRe.FindStringSubmatch(tag)
		if m[1] != m[4] {
			// Open and close markers disagree; not a recognized tag.
			return tag
		}
		if len(msg.Images) < MaxImages {
			msg.Images = append(msg.Images, buildImage(parseAttrs(m[2]), strings.TrimSpace(m[3])))
		}
		return ""
	})

	text = listingTagRe.ReplaceAllStringFunc(text, func(tag string) string {
		m := listingTagRe.FindStringSubmatch(tag)
		msg.Listings = append(msg.Listings, buildListing(parseAttrs(m[1])))
		return ""
	})

	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			msg.Paragraphs = append(msg.Paragraphs, line)
		}
	}
	return msg
}

func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// buildImage resolves the source and caption for an image tag. The tag's
// inner text doubles as a fallback source, and failing that as alt text.
func buildImage(attrs map[string]string, inner string) Image {
	img := Image{Src: attrs["src"], Alt: attrs["alt"]}
	if img.Src == "" {
		img.Src = inner
	} else if img.Alt == "" {
		img.Alt = inner
	}
	if img.Src == "" {
		img.Src = PlaceholderImage
	}
	if img.Alt == "" {
		img.Alt = PlaceholderAlt
	}
	return img
}

func buildListing(attrs map[string]string) ListingCard {
	card := ListingCard{
		Link:    attrs["link"],
		Image:   attrs["image"],
		Price:   FormatPrice(attrs["price"]),
		Address: attrs["address"],
		Beds:    attrs["beds"],
		Baths:   attrs["baths"],
		Sqft:    attrs["sqft"],
	}
	if card.Address == "" {
		card.Address = PlaceholderAddress
	}
	for _, stat := range []*string{&card.Beds, &card.Baths, &card.Sqft} {
		if *stat == "" {
			*stat = PlaceholderStat
		}
	}
	return card
}

// FormatPrice normalizes a price attribute for display. A value that
// already leads with a currency symbol passes through unchanged; a bare
// number is rendered as dollars with thousands separators; anything else is
// left alone. An empty value becomes the fixed placeholder.
func FormatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderPrice
	}
	if r, _ := utf8.DecodeRuneInString(raw); r == '$' || r == '€' || r == '£' || r == '¥' {
		return raw
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil && n >= 0 {
		return "$" + groupThousands(int64(n))
	}
	return raw
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
