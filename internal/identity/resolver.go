package identity

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"partyrecords/internal/logger"
)

// Profiles is the part of the Mojang API the resolver needs.
type Profiles interface {
	UUIDByName(ctx context.Context, name string) (string, error)
	NameByUUID(ctx context.Context, id string) (string, error)
}

type Report struct {
	Resolved int
	Failed   []string
}

type NameChange struct {
	Old  string
	New  string
	UUID string
}

// Resolver runs lookups on a bounded pool of workers, paced to one request
// per delay across all workers.
type Resolver struct {
	profiles Profiles
	workers  int
	limiter  *rate.Limiter
	log      *slog.Logger
}

func NewResolver(profiles Profiles, workers int, delay time.Duration, log *slog.Logger) *Resolver {
	if workers <= 0 {
		workers = 1
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Resolver{
		profiles: profiles,
		workers:  workers,
		limiter:  rate.NewLimiter(limit, 1),
		log:      logger.OrDiscard(log),
	}
}

// ResolveMissing looks up UUIDs for players that have none in lookup. Failed
// names are reported and never abort the batch. The input lookup is not
// modified.
func (r *Resolver) ResolveMissing(ctx context.Context, lookup Lookup, players []string) (Lookup, *Report, error) {
	updated := lookup.Clone()
	report := &Report{}

	var pending []string
	seen := make(map[string]bool)
	for _, name := range players {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := lookup[name]; !ok {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)

	var mu sync.Mutex
	err := r.each(ctx, pending, func(ctx context.Context, name string) {
		id, err := r.profiles.UUIDByName(ctx, name)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			r.log.Warn("uuid lookup failed", "player", name, "error", err)
			report.Failed = append(report.Failed, name)
			return
		}
		updated[name] = id
		report.Resolved++
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(report.Failed)
	return updated, report, nil
}

// RefreshNames fetches the current name of every UUID in lookup and re-keys
// the lookup by it. Players whose name cannot be fetched keep their old entry.
func (r *Resolver) RefreshNames(ctx context.Context, lookup Lookup) (Lookup, []NameChange, error) {
	ids := lookup.UUIDs()

	current := make(map[string]string, len(ids))
	var mu sync.Mutex
	err := r.each(ctx, ids, func(ctx context.Context, id string) {
		name, err := r.profiles.NameByUUID(ctx, id)
		if err != nil {
			r.log.Warn("name lookup failed", "uuid", id, "error", err)
			return
		}
		mu.Lock()
		current[id] = name
		mu.Unlock()
	})
	if err != nil {
		return nil, nil, err
	}

	updated := make(Lookup, len(lookup))
	var changes []NameChange
	for _, old := range lookup.Names() {
		id := lookup[old]
		name, ok := current[id]
		if !ok {
			r.log.Warn("keeping old name", "player", old, "uuid", id)
			updated[old] = id
			continue
		}
		updated[name] = id
		if name != old {
			changes = append(changes, NameChange{Old: old, New: name, UUID: id})
		}
	}
	return updated, changes, nil
}

func (r *Resolver) each(ctx context.Context, items []string, fn func(ctx context.Context, item string)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, item := range items {
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}
			fn(ctx, item)
			return nil
		})
	}
	return g.Wait()
}
