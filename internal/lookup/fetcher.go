package lookup

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Default fetcher configuration.
const (
	DefaultTimeout = 5 * time.Second
	DefaultRetries = 2 // additional attempts after the first
	fallbackServer = "8.8.8.8:53"
	resolvConfPath = "/etc/resolv.conf"
)

// Exchanger performs one DNS exchange against a server. *dns.Client
// satisfies this; tests substitute a scripted implementation.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// Fetcher issues single-record-type queries against one resolver and maps
// raw responses and errors into Outcome values.
//
// Retry Policy:
//
// Network-level timeouts are the only transient failures: each query makes
// up to 1+retries attempts with the same per-attempt timeout and no backoff,
// then reports StatusTimeout. Everything else terminates on first
// occurrence - NXDOMAIN as StatusNXDomain, an empty answer as
// StatusNoRecords, and any remaining resolver error (SERVFAIL, REFUSED,
// malformed response) as StatusError, since those typically indicate a
// persistent condition rather than transience.
//
// The Fetcher is stateless across calls and safe for concurrent use; the
// underlying UDP socket is scoped to each exchange and released on every
// exit path.
type Fetcher struct {
	exchange Exchanger
	server   string
	retries  int
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher querying the given server ("host:port" or
// bare host, in which case port 53 is assumed). An empty server selects
// the system resolver (first entry of /etc/resolv.conf, falling back to
// Google public DNS). timeout bounds each attempt; retries is the number
// of additional attempts on timeout.
func NewFetcher(server string, timeout time.Duration, retries int, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		exchange: &dns.Client{Timeout: timeout},
		server:   normalizeServer(server),
		retries:  retries,
		logger:   logger,
	}
}

// Server returns the resolver address queries are sent to.
func (f *Fetcher) Server() string { return f.server }

var qtypes = map[RecordType]uint16{
	TypeA:     dns.TypeA,
	TypeAAAA:  dns.TypeAAAA,
	TypeCNAME: dns.TypeCNAME,
	TypeMX:    dns.TypeMX,
	TypeNS:    dns.TypeNS,
	TypeTXT:   dns.TypeTXT,
	TypeSOA:   dns.TypeSOA,
}

// Fetch queries one record type for the domain and classifies the result.
// All failures are reported as Outcome values; Fetch itself never fails.
func (f *Fetcher) Fetch(ctx context.Context, domain Domain, rtype RecordType) Outcome {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain.String()), qtypes[rtype])

	attempts := 1 + f.retries
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, rtt, err := f.exchange.ExchangeContext(ctx, msg, f.server)
		if err != nil {
			if isTimeout(err) {
				f.logger.Debug("query attempt timed out",
					"domain", domain, "type", rtype, "attempt", attempt, "server", f.server)
				continue
			}
			f.logger.Warn("query failed",
				"domain", domain, "type", rtype, "server", f.server, "err", err)
			return Outcome{Status: StatusError, Err: err.Error()}
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			entries := entriesFromAnswer(rtype, resp.Answer)
			if len(entries) == 0 {
				return Outcome{Status: StatusNoRecords}
			}
			if rtype == TypeMX {
				sortMX(entries)
			}
			f.logger.Debug("query succeeded",
				"domain", domain, "type", rtype, "records", len(entries), "rtt_ms", rtt.Milliseconds())
			return Outcome{Status: StatusSuccess, Entries: entries}
		case dns.RcodeNameError:
			return Outcome{Status: StatusNXDomain}
		default:
			return Outcome{Status: StatusError, Err: "server returned " + dns.RcodeToString[resp.Rcode]}
		}
	}

	f.logger.Warn("query timed out",
		"domain", domain, "type", rtype, "attempts", attempts, "server", f.server)
	return Outcome{Status: StatusTimeout}
}

// entriesFromAnswer normalizes the answer section, keeping only records of
// the requested type. Queries for a CNAMEd name may carry extra records of
// other types in the answer; those belong to other lookups and are dropped.
func entriesFromAnswer(rtype RecordType, answer []dns.RR) []Entry {
	var entries []Entry
	for _, rr := range answer {
		switch rec := rr.(type) {
		case *dns.A:
			if rtype == TypeA {
				entries = append(entries, Entry{Value: rec.A.String()})
			}
		case *dns.AAAA:
			if rtype == TypeAAAA {
				entries = append(entries, Entry{Value: rec.AAAA.String()})
			}
		case *dns.CNAME:
			if rtype == TypeCNAME {
				entries = append(entries, Entry{Value: rec.Target})
			}
		case *dns.NS:
			if rtype == TypeNS {
				entries = append(entries, Entry{Value: rec.Ns})
			}
		case *dns.MX:
			if rtype == TypeMX {
				entries = append(entries, Entry{Value: rec.Mx, Priority: rec.Preference})
			}
		case *dns.TXT:
			if rtype == TypeTXT {
				// Long TXT data arrives as multiple character-strings
				// belonging to one record; they form a single entry.
				entries = append(entries, Entry{Value: strings.Join(rec.Txt, "")})
			}
		case *dns.SOA:
			if rtype == TypeSOA {
				entries = append(entries, Entry{
					Value: rec.Ns,
					SOA: &SOAData{
						PrimaryNS: rec.Ns,
						Mailbox:   rec.Mbox,
						Serial:    rec.Serial,
						Refresh:   rec.Refresh,
						Retry:     rec.Retry,
						Expire:    rec.Expire,
						Minimum:   rec.Minttl,
					},
				})
			}
		}
	}
	return entries
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

// normalizeServer ensures a usable "host:port" resolver address.
func normalizeServer(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return systemResolver()
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, "53")
}

// systemResolver picks the first nameserver from /etc/resolv.conf,
// falling back to a public resolver when it cannot be read.
func systemResolver() string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServer
	}
	port := conf.Port
	if port == "" {
		port = "53"
	}
	return net.JoinHostPort(conf.Servers[0], port)
}
