package lookup

import (
	"context"
	"log/slog"
	"time"
)

// Orchestrator runs the per-type queries for one domain and aggregates
// the outcomes. It holds no per-invocation state; one instance may serve
// any number of sequential Lookup calls.
type Orchestrator struct {
	fetcher *Fetcher
	logger  *slog.Logger

	// OnProgress, when set, is called after each per-type query completes.
	// done counts completed queries out of total. Used for terminal
	// progress reporting; must not block.
	OnProgress func(rtype RecordType, outcome Outcome, done, total int)
}

// NewOrchestrator creates an Orchestrator over the given fetcher.
func NewOrchestrator(fetcher *Fetcher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{fetcher: fetcher, logger: logger}
}

// Lookup queries each requested record type in display order and returns
// one Result covering all of them. A nil or empty types slice selects the
// full record type set.
//
// Per-type failures (timeout, resolver error, no data) are recorded and
// never stop the remaining queries. The one exception is NXDOMAIN: the
// domain does not exist, so querying further types is wasted work - the
// loop stops and every remaining type is marked StatusNXDomain.
//
// Lookup never returns an error; every failure mode is a value in the
// Result. Callers inspect outcomes to decide exit semantics.
func (o *Orchestrator) Lookup(ctx context.Context, domain Domain, types []RecordType) Result {
	if len(types) == 0 {
		types = AllRecordTypes()
	} else {
		types = displayOrder(types)
	}

	result := Result{
		Domain:   domain,
		Time:     time.Now().UTC(),
		Types:    types,
		Outcomes: make(map[RecordType]Outcome, len(types)),
	}

	o.logger.Info("lookup started",
		"domain", domain, "types", len(types), "server", o.fetcher.Server())

	for i, rtype := range types {
		outcome := o.fetcher.Fetch(ctx, domain, rtype)
		result.Outcomes[rtype] = outcome
		if o.OnProgress != nil {
			o.OnProgress(rtype, outcome, i+1, len(types))
		}

		if outcome.Status == StatusNXDomain {
			o.logger.Warn("domain does not exist", "domain", domain)
			for _, remaining := range types[i+1:] {
				result.Outcomes[remaining] = Outcome{Status: StatusNXDomain}
			}
			break
		}
	}

	o.logger.Info("lookup completed",
		"domain", domain, "found", result.HasRecords(), "missing", result.DomainMissing())
	return result
}

// displayOrder reorders a requested subset into the fixed display order,
// dropping duplicates. Order matters only for presentation.
func displayOrder(types []RecordType) []RecordType {
	requested := make(map[RecordType]bool, len(types))
	for _, rt := range types {
		requested[rt] = true
	}
	ordered := make([]RecordType, 0, len(types))
	for _, rt := range AllRecordTypes() {
		if requested[rt] {
			ordered = append(ordered, rt)
		}
	}
	return ordered
}
