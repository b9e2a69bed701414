package utils

import (
	"strconv"
	"strings"

	"VidTube.com/pkg/errno"
)

// Transfer converts a jwt identity claim into a user id, -1 when the claim
// has an unexpected shape.
func Transfer(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		if intValue, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intValue
		}
	}
	return -1
}

// ParseID validates the shape of an identifier taken from a path or body.
// Ids are positive decimal snowflakes; anything else is InvalidArgument.
func ParseID(entity, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errno.InvalidID(entity)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errno.InvalidID(entity)
	}
	return id, nil
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
