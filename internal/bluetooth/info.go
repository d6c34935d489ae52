package bluetooth

import "strings"

// connectedMarker is the substring that marks a live connection in a detail block.
const connectedMarker = "Connected: yes"

// Info is the subset of a device detail block the engine cares about.
type Info struct {
	Name      string
	Alias     string
	Connected bool
	Paired    bool
	Trusted   bool
}

// DisplayName returns Name, falling back to Alias.
func (i Info) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Alias
}

// ParseInfo reads a detail block. Only the first Name and Alias fields count.
func ParseInfo(text string) Info {
	var info Info
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(StripANSI(line))
		switch {
		case strings.Contains(line, connectedMarker):
			info.Connected = true
		case strings.HasPrefix(line, "Paired: yes"):
			info.Paired = true
		case strings.HasPrefix(line, "Trusted: yes"):
			info.Trusted = true
		case strings.Contains(line, "Name:") && info.Name == "":
			_, v, _ := strings.Cut(line, "Name:")
			info.Name = strings.TrimSpace(v)
		case strings.Contains(line, "Alias:") && info.Alias == "":
			_, v, _ := strings.Cut(line, "Alias:")
			info.Alias = strings.TrimSpace(v)
		}
	}
	return info
}
