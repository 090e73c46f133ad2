// Package lookup implements the DNS lookup-and-aggregation engine for hydradig.
//
// The engine is built from three pieces:
//
//  1. Validate - normalizes and syntactically validates a candidate domain.
//  2. Fetcher - issues a single-record-type query with a bounded
//     timeout/retry policy and maps the resolver's native error surface
//     into a closed Outcome taxonomy.
//  3. Orchestrator - iterates the requested record types, tolerates
//     per-type failures, and aggregates everything into one Result.
//
// Failure Isolation:
//
// A timeout or resolver error on one record type never prevents querying
// the remaining types. The single cross-type dependency is domain absence:
// once any query reports NXDOMAIN the orchestrator stops issuing queries
// and marks every remaining type accordingly, since the domain itself does
// not exist.
//
// Type-Oriented Design:
//
// Every outcome of a query is one of five explicit statuses rather than an
// error value, so callers get compile-time exhaustiveness over the
// success/failure handling instead of ad-hoc error inspection. Resolver
// library errors never escape the Fetcher boundary.
package lookup

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RecordType is one of the supported DNS record kinds.
type RecordType string

// The closed set of supported record types, in display order.
const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeNS    RecordType = "NS"
	TypeTXT   RecordType = "TXT"
	TypeSOA   RecordType = "SOA"
)

// AllRecordTypes returns the full record type set in display order.
// The returned slice is a fresh copy; callers may reorder it freely.
func AllRecordTypes() []RecordType {
	return []RecordType{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeNS, TypeTXT, TypeSOA}
}

// ParseRecordType converts a user-supplied name (any case) into a
// RecordType. Unknown types are rejected before any query is issued.
func ParseRecordType(s string) (RecordType, error) {
	rt := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	switch rt {
	case TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeNS, TypeTXT, TypeSOA:
		return rt, nil
	}
	return "", fmt.Errorf("unknown record type %q", s)
}

// ParseRecordTypes converts a list of names, rejecting duplicates-preserving
// order is the caller's concern; the orchestrator queries in display order
// regardless.
func ParseRecordTypes(names []string) ([]RecordType, error) {
	types := make([]RecordType, 0, len(names))
	seen := make(map[RecordType]bool, len(names))
	for _, n := range names {
		rt, err := ParseRecordType(n)
		if err != nil {
			return nil, err
		}
		if seen[rt] {
			continue
		}
		seen[rt] = true
		types = append(types, rt)
	}
	return types, nil
}

// SOAData is the structured content of a start-of-authority record.
type SOAData struct {
	PrimaryNS string `json:"primary_ns"`
	Mailbox   string `json:"mailbox"`
	Serial    uint32 `json:"serial"`
	Refresh   uint32 `json:"refresh"`
	Retry     uint32 `json:"retry"`
	Expire    uint32 `json:"expire"`
	Minimum   uint32 `json:"minimum"`
}

// Entry is one normalized returned record.
//
// Value carries the address (A/AAAA), hostname (CNAME/NS/MX exchange),
// or text (TXT). Priority is set for MX entries only. SOA is set for SOA
// entries only, with Value mirroring the primary nameserver so flattened
// (tabular) consumers have a single-column representation.
type Entry struct {
	Value    string   `json:"value"`
	Priority uint16   `json:"priority,omitempty"`
	SOA      *SOAData `json:"soa,omitempty"`
}

// Status classifies the outcome of one record-type query.
type Status string

const (
	// StatusSuccess means at least one record of the requested type was returned.
	StatusSuccess Status = "success"
	// StatusNoRecords means the domain exists but has no data of this type (NODATA).
	StatusNoRecords Status = "no_records"
	// StatusNXDomain means the domain itself does not exist. Once observed
	// for any type, the orchestrator treats it as global.
	StatusNXDomain Status = "nxdomain"
	// StatusTimeout means every attempt timed out (retries exhausted).
	StatusTimeout Status = "timeout"
	// StatusError covers all remaining resolver-level failures
	// (SERVFAIL, REFUSED, malformed responses); these are terminal on
	// first occurrence, not retried.
	StatusError Status = "error"
)

// Outcome is the result classification of one (domain, record type) query
// attempt sequence. Entries is populated only for StatusSuccess; Err only
// for StatusError.
type Outcome struct {
	Status  Status  `json:"status"`
	Entries []Entry `json:"entries,omitempty"`
	Err     string  `json:"error,omitempty"`
}

// Result aggregates the outcomes across all requested record types for one
// domain. It is built once per invocation and read-only afterwards; any
// number of sinks (renderer, exporters, history store, API) may share it.
type Result struct {
	Domain   Domain                 `json:"domain"`
	Time     time.Time              `json:"timestamp"`
	Types    []RecordType           `json:"-"`
	Outcomes map[RecordType]Outcome `json:"records"`
}

// HasRecords reports whether any requested type produced at least one entry.
func (r Result) HasRecords() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusSuccess && len(o.Entries) > 0 {
			return true
		}
	}
	return false
}

// DomainMissing reports whether the lookup failed at the domain level.
func (r Result) DomainMissing() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusNXDomain {
			return true
		}
	}
	return false
}

// sortMX orders MX entries by ascending preference, keeping the resolver's
// response order for equal preferences.
func sortMX(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
}
