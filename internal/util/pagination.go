package util

import "strconv"

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Window clamps a limit/offset pair to sane bounds.
func Window(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
