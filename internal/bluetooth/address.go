package bluetooth

import (
	"regexp"
	"strings"
)

// addressPattern is the canonical hex-pair form, any case, colon separated.
const addressPattern = `(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}`

var addressRe = regexp.MustCompile(`^` + addressPattern + `$`)

// NormalizeAddress converts an address to uppercase colon-separated form.
// Dash separators are accepted. ok is false when the result is not a valid
// hardware address.
func NormalizeAddress(s string) (addr string, ok bool) {
	addr = normalizeSeparators(s)
	return addr, addressRe.MatchString(addr)
}

// normalizeSeparators is the comparison form used to detect an address echoed
// back as a name: trimmed, dashes turned into colons, uppercased.
func normalizeSeparators(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ":"))
}

// isAddressName reports whether name is just addr in disguise.
func isAddressName(name, addr string) bool {
	return normalizeSeparators(name) == addr
}

// genuineName returns name when it is non-empty and not the address itself.
func genuineName(name, addr string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || isAddressName(name, addr) {
		return "", false
	}
	return name, true
}
