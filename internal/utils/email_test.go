package utils

import (
	"strings"
	"testing"
)

func TestParseEmailAddress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantAddress string
	}{
		{
			name:        "Display name with quotes",
			input:       `"Lorem Weekly" <digest@lorem.example>`,
			wantName:    "Lorem Weekly",
			wantAddress: "digest@lorem.example",
		},
		{
			name:        "Display name without quotes",
			input:       "Lorem Weekly <digest@lorem.example>",
			wantName:    "Lorem Weekly",
			wantAddress: "digest@lorem.example",
		},
		{
			name:        "Bare address",
			input:       "digest@lorem.example",
			wantName:    "digest",
			wantAddress: "digest@lorem.example",
		},
		{
			name:        "Angle brackets without display name",
			input:       "<digest@lorem.example>",
			wantName:    "digest",
			wantAddress: "digest@lorem.example",
		},
		{
			name:        "Surrounding whitespace",
			input:       "  digest@lorem.example  ",
			wantName:    "digest",
			wantAddress: "digest@lorem.example",
		},
		{
			name:        "Unparseable input kept as-is",
			input:       "not an address",
			wantName:    "not an address",
			wantAddress: "not an address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEmailAddress(tt.input)
			if got.Name != tt.wantName {
				t.Errorf("ParseEmailAddress().Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Address != tt.wantAddress {
				t.Errorf("ParseEmailAddress().Address = %q, want %q", got.Address, tt.wantAddress)
			}
		})
	}
}

func TestGetDomainFromEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user@example.com", "example.com"},
		{"no-at-sign", ""},
		{"two@at@signs", ""},
	}

	for _, tt := range tests {
		if got := GetDomainFromEmail(tt.input); got != tt.expected {
			t.Errorf("GetDomainFromEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGenerateItemURLUnique(t *testing.T) {
	a, b := GenerateItemURL(), GenerateItemURL()
	if a == b {
		t.Errorf("expected distinct URLs, got %q twice", a)
	}
	if !strings.HasPrefix(a, "https://") {
		t.Errorf("expected an https URL, got %q", a)
	}
}
