package bluetooth

import (
	"context"
	"fmt"
)

// Scan runs one bounded scan and parses its output. A scan that has to be
// terminated at the wall-clock bound is normal; its partial output is used.
func (s *Session) Scan(ctx context.Context) ([]ScanEvent, error) {
	res, err := s.runner.Run(ctx, Command{
		Args:          s.scanArgs(),
		Timeout:       s.killAfter,
		CombineOutput: true,
	})
	if err != nil {
		return nil, err
	}
	scanLog.Debug("scan_done", "timed_out", res.TimedOut, "exit", res.ExitStatus, "bytes", len(res.Stdout))
	return ParseScan(res.Stdout), nil
}

// Discover returns the devices to display. Without forceScan only the paired
// listing is consulted; with it a bounded scan is merged in.
func (s *Session) Discover(ctx context.Context, forceScan bool) ([]Device, error) {
	paired, err := s.ListPaired(ctx)
	if err != nil {
		return nil, fmt.Errorf("list paired devices: %w", err)
	}

	var events []ScanEvent
	if forceScan {
		s.ensurePowered(ctx)
		s.notifier.Notify(s.msgs.Scanning)
		events, err = s.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
	}

	agg, err := s.reconcile(ctx, paired, events)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	devices := FilterVisible(agg.Devices())
	SortDevices(devices)
	return devices, nil
}
