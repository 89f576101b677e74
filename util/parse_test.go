package util_test

import (
	"testing"
	"time"

	"github.com/downfa11-org/burstfifo/util"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		fallback int
		want     int
	}{
		{"123", 0, 123},
		{"0", 99, 0},
		{"-5", 0, -5},
		{"abc", 42, 42},
		{"", 7, 7},
		{"   ", 8, 8},
		{" 16 ", 0, 16},
	}

	for _, tt := range tests {
		got := util.ParseInt(tt.input, tt.fallback)
		if got != tt.want {
			t.Errorf("ParseInt(%q, %d) = %d; want %d", tt.input, tt.fallback, got, tt.want)
		}
	}
}

func TestParseInt64(t *testing.T) {
	if got := util.ParseInt64("9000000000", 0); got != 9000000000 {
		t.Errorf("ParseInt64 = %d; want 9000000000", got)
	}
	if got := util.ParseInt64("x", -1); got != -1 {
		t.Errorf("ParseInt64 fallback = %d; want -1", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"t", false, true},
		{"f", true, false},
		{"yes", false, false},
		{"", true, true},
		{"   ", false, false},
	}

	for _, tt := range tests {
		got := util.ParseBool(tt.input, tt.fallback)
		if got != tt.want {
			t.Errorf("ParseBool(%q, %v) = %v; want %v", tt.input, tt.fallback, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if got := util.ParseDuration("250us", 0); got != 250*time.Microsecond {
		t.Errorf("ParseDuration = %v; want 250us", got)
	}
	if got := util.ParseDuration("soon", time.Second); got != time.Second {
		t.Errorf("ParseDuration fallback = %v; want 1s", got)
	}
}
