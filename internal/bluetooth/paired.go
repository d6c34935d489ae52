package bluetooth

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/storskegg/bt-menu/internal/logging"
)

var pairedLog = logging.ForComponent(logging.CompPaired)

// ParsePairedLine reads one "Device <address> <name>" line.
func ParsePairedLine(line string) (Device, bool) {
	parts := strings.SplitN(strings.TrimSpace(StripANSI(line)), " ", 3)
	if len(parts) < 3 || parts[0] != "Device" {
		return Device{}, false
	}
	addr, ok := NormalizeAddress(parts[1])
	if !ok {
		return Device{}, false
	}
	name := strings.TrimSpace(parts[2])
	if name == "" {
		return Device{}, false
	}
	return Device{Address: addr, Name: name, Paired: true}, true
}

// ListPaired returns every paired device with its live connection state.
// A failing or empty listing yields no devices and no error; only a spawn
// failure is returned.
func (s *Session) ListPaired(ctx context.Context) ([]Device, error) {
	res, err := s.run(ctx, s.ctl("devices", "Paired")...)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		pairedLog.Debug("paired_listing_failed", "exit", res.ExitStatus, "stderr", res.Stderr)
		return nil, nil
	}

	var devices []Device
	seen := make(map[string]bool)
	for _, line := range splitLines(res.Stdout) {
		dev, ok := ParsePairedLine(line)
		if !ok || seen[dev.Address] {
			continue
		}
		seen[dev.Address] = true
		devices = append(devices, dev)
	}

	infos, err := s.infoAll(ctx, addresses(devices))
	if err != nil {
		return nil, err
	}
	for i := range devices {
		devices[i].Connected = infos[i].Connected
	}
	pairedLog.Debug("paired_listed", "count", len(devices))
	return devices, nil
}

// Info runs the detail query for one address. A non-zero exit yields an
// empty Info.
func (s *Session) Info(ctx context.Context, addr string) (Info, error) {
	res, err := s.run(ctx, s.ctl("info", addr)...)
	if err != nil {
		return Info{}, err
	}
	if res.ExitStatus != 0 {
		return Info{}, nil
	}
	return ParseInfo(res.Stdout), nil
}

// infoAll queries addrs concurrently with at most s.workers in flight.
// Results are positional; the caller merges them serially.
func (s *Session) infoAll(ctx context.Context, addrs []string) ([]Info, error) {
	infos := make([]Info, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, addr := range addrs {
		i, addr := i, addr
		g.Go(func() error {
			info, err := s.Info(gctx, addr)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func addresses(devices []Device) []string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.Address
	}
	return out
}
