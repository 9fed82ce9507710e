package config

import (
	"os"
	"strconv"
)

// IsDebug reports whether ALINE_DEBUG enables debug logging ("1", "true").
func IsDebug() bool {
	v, _ := strconv.ParseBool(os.Getenv("ALINE_DEBUG"))
	return v
}
