package main

import (
	"errors"
	"testing"
)

func TestIsAllowedStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"member", true},
		{"administrator", true},
		{"creator", true},
		{"left", false},
		{"kicked", false},
		{"restricted", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := isAllowedStatus(tt.status); got != tt.want {
				t.Errorf("isAllowedStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestCheckMembership(t *testing.T) {
	statuses := map[string]string{
		"@alpha": "member",
		"@beta":  "administrator",
		"@gamma": "left",
	}
	lookup := func(channel string, userID int64) (string, error) {
		s, ok := statuses[channel]
		if !ok {
			return "", errors.New("channel not found")
		}
		return s, nil
	}

	tests := []struct {
		name     string
		channels []string
		policy   string
		want     bool
	}{
		{"empty list passes", nil, FailClosed, true},
		{"all member", []string{"@alpha", "@beta"}, FailClosed, true},
		{"one not member", []string{"@alpha", "@gamma"}, FailClosed, false},
		{"lookup error fail_closed", []string{"@alpha", "@missing"}, FailClosed, false},
		{"lookup error fail_open skips", []string{"@missing", "@alpha"}, FailOpen, true},
		{"fail_open still checks others", []string{"@missing", "@gamma"}, FailOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkMembership(tt.channels, 1, tt.policy, lookup); got != tt.want {
				t.Errorf("checkMembership(%v, %s) = %v, want %v", tt.channels, tt.policy, got, tt.want)
			}
		})
	}
}
