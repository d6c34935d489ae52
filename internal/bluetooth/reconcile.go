package bluetooth

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/storskegg/bt-menu/internal/logging"
)

var reconcileLog = logging.ForComponent(logging.CompReconcile)

// Reconcile merges the paired listing with scan events into one record per
// address.
func (s *Session) Reconcile(ctx context.Context, paired []Device, events []ScanEvent) (map[string]Device, error) {
	agg, err := s.reconcile(ctx, paired, events)
	if err != nil {
		return nil, err
	}
	return agg.Map(), nil
}

// reconcile seeds paired devices, folds events in stream order, then looks
// up names for scan-only devices that are still nameless. A lookup result
// never overrides a name supplied by the stream.
func (s *Session) reconcile(ctx context.Context, paired []Device, events []ScanEvent) (*Aggregator, error) {
	agg := NewAggregator()
	for _, dev := range paired {
		agg.Seed(dev)
	}

	var pending []string
	for _, ev := range events {
		addr, ok := NormalizeAddress(ev.Address)
		if !ok {
			continue
		}
		ev.Address = addr
		if agg.Observe(ev) && ev.Name == "" {
			pending = append(pending, addr)
		}
	}

	var lookups []string
	for _, addr := range pending {
		if dev, _ := agg.Get(addr); dev.Nameless() {
			lookups = append(lookups, addr)
		}
	}
	if len(lookups) == 0 {
		return agg, nil
	}

	names, err := s.lookupNames(ctx, lookups)
	if err != nil {
		return nil, err
	}
	resolved := 0
	for i, addr := range lookups {
		if agg.SetName(addr, names[i]) {
			resolved++
		}
	}
	reconcileLog.Debug("names_enriched", "queried", len(lookups), "resolved", resolved)
	return agg, nil
}

// lookupNames runs detail queries in parallel. A failed query leaves its
// slot empty; only cancellation of ctx is returned.
func (s *Session) lookupNames(ctx context.Context, addrs []string) ([]string, error) {
	names := make([]string, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, addr := range addrs {
		i, addr := i, addr
		g.Go(func() error {
			info, err := s.Info(gctx, addr)
			if err != nil {
				reconcileLog.Debug("name_lookup_failed", "addr", addr, "error", err)
				return nil
			}
			names[i] = info.DisplayName()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
