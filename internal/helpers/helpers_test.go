package helpers

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Street Food After Dark", "street-food-after-dark"},
		{"  Harbor Walk!  ", "harbor-walk"},
		{"Tapas & Wine (Old Town)", "tapas-wine-old-town"},
		{"Caffè --- Crawl", "caff-crawl"},
		{"2 Days / 1 Night", "2-days-1-night"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestIsPasswordStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Str0ng!pass", true},
		{"short1!A", true},
		{"Sh0rt!", false},            // too short
		{"alllowercase1!", false},    // no upper
		{"ALLUPPERCASE1!", false},    // no lower
		{"NoDigitsHere!", false},     // no digit
		{"NoSpecials123", false},     // no special
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPasswordStrong(tt.password); got != tt.want {
			t.Errorf("IsPasswordStrong(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestNewTransactionID(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()
	if !strings.HasPrefix(a, "tran_") {
		t.Errorf("expected tran_ prefix, got %q", a)
	}
	if a == b {
		t.Error("transaction ids must be unique")
	}
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/roamly/tours/abc123.jpg", "roamly/tours/abc123", true},
		{"https://res.cloudinary.com/demo/image/upload/roamly/invoices/tran_1.pdf", "roamly/invoices/tran_1", true},
		{"https://res.cloudinary.com/demo/image/upload/plain", "plain", true},
		{"https://example.com/not/cloudinary.jpg", "", false},
		{"https://res.cloudinary.com/demo/image/upload/", "", false},
	}
	for _, tt := range tests {
		got, ok := PublicIDFromURL(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PublicIDFromURL(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}
