package bluetooth

import (
	"regexp"
	"strings"
)

// ansiEscape matches a two-byte escape (ESC + one of @-Z \ ] ^ _) or a CSI
// sequence (ESC [ params intermediates final).
var ansiEscape = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// StripANSI removes terminal escape sequences from text.
// Removal repeats until nothing matches, so fragments that join into a new
// sequence after one pass are removed as well and StripANSI(StripANSI(x))
// always equals StripANSI(x).
func StripANSI(text string) string {
	// Fast path: no ESC byte, nothing to strip
	if strings.IndexByte(text, '\x1b') < 0 {
		return text
	}
	for {
		stripped := ansiEscape.ReplaceAllString(text, "")
		if stripped == text {
			return stripped
		}
		text = stripped
	}
}
