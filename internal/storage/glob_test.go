package storage

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"A1", "A1", true},
		{"A1", "A12", false},
		{"A1", "xA1", false},
		{"A*", "A", true},
		{"A*", "A123", true},
		{"A*", "BA1", false},
		{"*1", "B1", true},
		{"*1", "B12", false},
		{"*2*", "C2C", true},
		{"*2*", "2", true},
		{"*2*", "C3C", false},
		{"C*C", "C2C", true},
		{"C*C", "CC", true},
		{"C*C", "C", false},
		{"C*C", "testC2C", false},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "acb", false},
		{"a**c", "abc", true},
		{"ab*ba", "aba", false},
		{"user:?", "user:?", true},
		{"user:?", "user:1", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.name); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}
