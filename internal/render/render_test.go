package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlainText(t *testing.T) {
	msg := Parse("First line.\n\nSecond line.\n")

	require.Len(t, msg.Paragraphs, 2)
	assert.Equal(t, "First line.", msg.Paragraphs[0])
	assert.Equal(t, "Second line.", msg.Paragraphs[1])
	assert.Empty(t, msg.Images)
	assert.Empty(t, msg.Listings)
}

func TestParseImageTag(t *testing.T) {
	msg := Parse(`Take a look: [img1 src="https://x.test/a.jpg" alt="Front porch"]spare[/img1] nice, right?`)

	require.Len(t, msg.Images, 1)
	assert.Equal(t, "https://x.test/a.jpg", msg.Images[0].Src)
	assert.Equal(t, "Front porch", msg.Images[0].Alt)
	require.Len(t, msg.Paragraphs, 1)
	assert.Equal(t, "Take a look:  nice, right?", msg.Paragraphs[0])
}

func TestParseImageFallbacks(t *testing.T) {
	t.Run("inner text as source", func(t *testing.T) {
		msg := Parse("[img2]https://x.test/b.jpg[/img2]")
		require.Len(t, msg.Images, 1)
		assert.Equal(t, "https://x.test/b.jpg", msg.Images[0].Src)
		assert.Equal(t, PlaceholderAlt, msg.Images[0].Alt)
	})

	t.Run("inner text as alt", func(t *testing.T) {
		msg := Parse(`[img3 src="https://x.test/c.jpg"]The kitchen[/img3]`)
		require.Len(t, msg.Images, 1)
		assert.Equal(t, "The kitchen", msg.Images[0].Alt)
	})

	t.Run("empty tag gets placeholders", func(t *testing.T) {
		msg := Parse("[img1][/img1]")
		require.Len(t, msg.Images, 1)
		assert.Equal(t, PlaceholderImage, msg.Images[0].Src)
		assert.Equal(t, PlaceholderAlt, msg.Images[0].Alt)
	})
}

func TestParseImageCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		n := i%5 + 1
		fmt.Fprintf(&b, "[img%d src=\"https://x.test/%d.jpg\"][/img%d]\n", n, i, n)
	}

	msg := Parse(b.String())

	assert.Len(t, msg.Images, MaxImages, "only the first 5 image tags render")
	assert.Empty(t, msg.Paragraphs, "dropped tags are still removed from the text")
}

func TestParseMismatchedImageMarkers(t *testing.T) {
	msg := Parse(`[img1 src="https://x.test/a.jpg"]text[/img2]`)

	assert.Empty(t, msg.Images)
	require.Len(t, msg.Paragraphs, 1, "unrecognized tag stays in the text body")
}

func TestParseListingTag(t *testing.T) {
	reply := `Here is one option:
[listing link="https://x.test/l/9" image="https://x.test/l9.jpg" price="450000" address="12 Oak Ln" beds="3" baths="2" sqft="1810"]`

	msg := Parse(reply)

	require.Len(t, msg.Listings, 1)
	card := msg.Listings[0]
	assert.Equal(t, "https://x.test/l/9", card.Link)
	assert.Equal(t, "$450,000", card.Price)
	assert.Equal(t, "12 Oak Ln", card.Address)
	assert.Equal(t, "3", card.Beds)
	assert.Equal(t, "2", card.Baths)
	assert.Equal(t, "1810", card.Sqft)
	require.Len(t, msg.Paragraphs, 1)
	assert.Equal(t, "Here is one option:", msg.Paragraphs[0])
}

func TestParseListingPlaceholders(t *testing.T) {
	msg := Parse(`[listing link="https://x.test/l/1"]`)

	require.Len(t, msg.Listings, 1)
	card := msg.Listings[0]
	assert.Equal(t, PlaceholderPrice, card.Price)
	assert.Equal(t, PlaceholderAddress, card.Address)
	assert.Equal(t, PlaceholderStat, card.Beds)
	assert.Equal(t, PlaceholderStat, card.Baths)
	assert.Equal(t, PlaceholderStat, card.Sqft)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare number gets separators", "450000", "$450,000"},
		{"small number", "900", "$900"},
		{"already has symbol", "$1,000", "$1,000"},
		{"euro passes through", "€350.000", "€350.000"},
		{"empty becomes placeholder", "", PlaceholderPrice},
		{"free text passes through", "make an offer", "make an offer"},
		{"number with commas renormalized", "1,250,000", "$1,250,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}
