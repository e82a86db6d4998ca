package utils

import "strconv"

// ParseLimitOffset parses limit/offset query values, falling back to
// defaultLimit and 0 on missing or malformed input. Negative values clamp to
// the defaults as well.
func ParseLimitOffset(limitStr, offsetStr string, defaultLimit int) (int, int) {
	limit := defaultLimit
	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
