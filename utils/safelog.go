package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
)

// IsProduction controls whether sensitive data is masked in log output.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production"

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountRegex = regexp.MustCompile(`(₹|\$|€)\s?\d+([.,]\d{1,2})?`)
	uuidRegex   = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString masks emails, currency amounts and full IDs in production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}
	out := emailRegex.ReplaceAllString(input, "***@***")
	out = amountRegex.ReplaceAllString(out, "₹***")
	out = uuidRegex.ReplaceAllStringFunc(out, func(id string) string {
		return id[:8] + "-****"
	})
	return out
}

// SafeLogf logs with sensitive data masked in production.
func SafeLogf(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}
