package session

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"I want to see 3-bedroom homes", CategoryListings},
		{"what's on the market near downtown", CategoryListings},
		{"can I book a tour for Saturday", CategoryScheduling},
		{"when are you available", CategoryScheduling},
		{"you can call me anytime", CategoryContact},
		{"my email is sam@example.com", CategoryContact},
		{"hello there", CategoryGeneral},
		{"", CategoryGeneral},
		// Listings language wins when categories overlap.
		{"book a tour of the house", CategoryListings},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Categorize(tt.text); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRandomPhrasesStayInCategory(t *testing.T) {
	src := NewRandomPhrases()

	for i := 0; i < 50; i++ {
		phrase := src.Phrase(CategoryListings)
		found := false
		for _, p := range phrases[CategoryListings] {
			if p == phrase {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("phrase %q is not from the listings category", phrase)
		}
	}
}
