package ephem

import (
	"errors"
	"testing"
)

func TestParseMoonModel(t *testing.T) {
	tests := []struct {
		input    string
		expected MoonModel
		wantErr  bool
	}{
		{"topocentric", MoonTopocentric, false},
		{"geocentric", MoonGeocentric, false},
		{"", MoonTopocentric, false},
		{"heliocentric", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMoonModel(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownMoonModel) {
					t.Errorf("ParseMoonModel(%q) error = %v, want ErrUnknownMoonModel", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoonModel(%q) error = %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("ParseMoonModel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestMoonModelString(t *testing.T) {
	tests := []struct {
		model    MoonModel
		expected string
	}{
		{MoonTopocentric, "topocentric"},
		{MoonGeocentric, "geocentric"},
		{MoonModel(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.model.String(); got != tc.expected {
				t.Errorf("MoonModel(%d).String() = %q, want %q", tc.model, got, tc.expected)
			}
		})
	}
}
