package sync

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultArchiveName is used when the backend sends no usable filename hint.
const DefaultArchiveName = "booth_catalog.boothpack"

var (
	// filename*=UTF-8''bo%20oth.zip — the extended form takes priority.
	dispositionExt = regexp.MustCompile(`(?i)filename\*\s*=\s*([^']*)''([^;]+)`)
	// filename="a.zip" or filename=a.zip
	dispositionPlain = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";]+)"?`)
)

// ParseDispositionFilename extracts the suggested filename from a
// Content-Disposition header. Both the plain and the RFC 5987 extended form
// are understood; absent or malformed headers yield the fallback.
func ParseDispositionFilename(disposition, fallback string) string {
	if m := dispositionExt.FindStringSubmatch(disposition); m != nil && m[2] != "" {
		name := strings.Trim(strings.TrimSpace(m[2]), `"`)
		if decoded, err := url.PathUnescape(name); err == nil {
			return decoded
		}
		return name
	}
	if m := dispositionPlain.FindStringSubmatch(disposition); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return fallback
}
