package util

import (
	"strconv"
	"strings"
	"time"
)

func ParseInt(str string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}
	return fallback
}

func ParseInt64(str string, fallback int64) int64 {
	if v, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
		return v
	}
	return fallback
}

func ParseBool(str string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(str)); err == nil {
		return v
	}
	return fallback
}

func ParseDuration(str string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(str)); err == nil {
		return v
	}
	return fallback
}
