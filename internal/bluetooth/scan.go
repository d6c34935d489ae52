package bluetooth

import (
	"io"
	"regexp"
	"strings"

	"github.com/storskegg/bt-menu/internal/logging"
)

var scanLog = logging.ForComponent(logging.CompScan)

// Scan event tags emitted by the control utility.
const (
	TagNew = "NEW"
	TagChg = "CHG"
)

// ScanEvent is one device line from a scan.
type ScanEvent struct {
	Tag     string
	Address string

	// Payload is the free-form text after the address.
	Payload string

	// Name is the candidate display name extracted from Payload, or empty.
	Name string
}

var scanLineRe = regexp.MustCompile(`(?i)\[(NEW|CHG)\] Device (` + addressPattern + `)(?:\s+(.*))?`)

// noiseMarkers flag a payload as a property change that carries no name.
var noiseMarkers = []string{
	"RSSI:",
	"TxPower:",
	"ManufacturerData",
	"ServiceData",
	"Class:",
	"Icon:",
	"Connected:",
	"UUIDs:",
	"Modalias:",
}

// ParseScan extracts device events from raw scan output.
func ParseScan(raw string) []ScanEvent {
	return ParseScanReader(strings.NewReader(raw))
}

// ParseScanReader extracts device events line by line. Lines that do not
// describe a device are skipped, as are lines over the length limit.
func ParseScanReader(r io.Reader) []ScanEvent {
	scanner, lines := newLineScanner(r)

	var events []ScanEvent
	skipped := 0
	for scanner.Scan() {
		ev, ok := ParseScanLine(scanner.Text())
		if !ok {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		// Keep what was read; a truncated stream is still valid input
		scanLog.Warn("scan_read_error", "error", err, "events", len(events))
	}
	if lines.dropped > 0 {
		scanLog.Warn("scan_lines_too_long", "dropped", lines.dropped, "limit", lines.max)
	}
	scanLog.Debug("scan_parsed", "events", len(events), "skipped", skipped)
	return events
}

// ParseScanLine matches a single sanitized line.
func ParseScanLine(line string) (ScanEvent, bool) {
	line = StripANSI(line)
	m := scanLineRe.FindStringSubmatch(line)
	if m == nil {
		return ScanEvent{}, false
	}
	addr, ok := NormalizeAddress(m[2])
	if !ok {
		return ScanEvent{}, false
	}
	ev := ScanEvent{
		Tag:     strings.ToUpper(m[1]),
		Address: addr,
		Payload: strings.TrimSpace(m[3]),
	}
	ev.Name = candidateName(ev.Payload, addr)
	return ev, true
}

// candidateName picks a display name out of a payload, in priority order:
// text after "Name:", text after "Alias:", or the whole payload when it
// holds no property marker. A name that is the address itself is dropped.
func candidateName(payload, addr string) string {
	var name string
	switch {
	case strings.Contains(payload, "Name:"):
		_, name, _ = strings.Cut(payload, "Name:")
	case strings.Contains(payload, "Alias:"):
		_, name, _ = strings.Cut(payload, "Alias:")
	case !containsAny(payload, noiseMarkers):
		name = payload
	}
	name, _ = genuineName(name, addr)
	return name
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
