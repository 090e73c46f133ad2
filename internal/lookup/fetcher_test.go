package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExchange replays canned responses, counting calls.
type scriptedExchange struct {
	calls    int
	respond  func(call int, m *dns.Msg) (*dns.Msg, error)
	lastAddr string
}

func (s *scriptedExchange) ExchangeContext(_ context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	s.calls++
	s.lastAddr = addr
	resp, err := s.respond(s.calls, m)
	return resp, time.Millisecond, err
}

// timeoutError mimics a UDP read deadline expiry.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(retries int, ex Exchanger) *Fetcher {
	f := NewFetcher("127.0.0.1:53", time.Second, retries, testLogger())
	f.exchange = ex
	return f
}

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}

func successResponse(m *dns.Msg, answer ...dns.RR) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetReply(m)
	resp.Answer = answer
	return resp
}

func rcodeResponse(m *dns.Msg, rcode int) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetRcode(m, rcode)
	return resp
}

func TestFetchARecords(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m,
			mustRR(t, "example.com. 300 IN A 93.184.216.34"),
			mustRR(t, "example.com. 300 IN A 93.184.216.35"),
		), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeA)
	require.Equal(t, StatusSuccess, out.Status)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "93.184.216.34", out.Entries[0].Value)
	assert.Equal(t, "93.184.216.35", out.Entries[1].Value)
	assert.Equal(t, 1, ex.calls)
}

func TestFetchNXDomainNotRetried(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return rcodeResponse(m, dns.RcodeNameError), nil
	}}
	f := newTestFetcher(3, ex)

	out := f.Fetch(context.Background(), "nonexistent.invalid", TypeA)
	assert.Equal(t, StatusNXDomain, out.Status)
	assert.Equal(t, 1, ex.calls, "NXDOMAIN must terminate on first occurrence")
}

func TestFetchNoData(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeAAAA)
	assert.Equal(t, StatusNoRecords, out.Status)
	assert.Empty(t, out.Entries)
}

func TestFetchServFailNotRetried(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return rcodeResponse(m, dns.RcodeServerFailure), nil
	}}
	f := newTestFetcher(3, ex)

	out := f.Fetch(context.Background(), "example.com", TypeA)
	assert.Equal(t, StatusError, out.Status)
	assert.Contains(t, out.Err, "SERVFAIL")
	assert.Equal(t, 1, ex.calls)
}

func TestFetchRefused(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return rcodeResponse(m, dns.RcodeRefused), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeNS)
	assert.Equal(t, StatusError, out.Status)
	assert.Contains(t, out.Err, "REFUSED")
}

func TestFetchTimeoutExhaustsRetries(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, _ *dns.Msg) (*dns.Msg, error) {
		return nil, timeoutError{}
	}}
	f := newTestFetcher(2, ex)

	out := f.Fetch(context.Background(), "example.com", TypeA)
	assert.Equal(t, StatusTimeout, out.Status)
	assert.Equal(t, 3, ex.calls, "timeout=1s retries=2 must make exactly 3 attempts")
}

func TestFetchRecoversAfterTimeout(t *testing.T) {
	ex := &scriptedExchange{respond: func(call int, m *dns.Msg) (*dns.Msg, error) {
		if call == 1 {
			return nil, timeoutError{}
		}
		return successResponse(m, mustRR(t, "example.com. 300 IN A 93.184.216.34")), nil
	}}
	f := newTestFetcher(2, ex)

	out := f.Fetch(context.Background(), "example.com", TypeA)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, 2, ex.calls)
}

func TestFetchNonTimeoutNetworkError(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, _ *dns.Msg) (*dns.Msg, error) {
		return nil, errors.New("connection refused")
	}}
	f := newTestFetcher(3, ex)

	out := f.Fetch(context.Background(), "example.com", TypeA)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, 1, ex.calls, "non-timeout errors are terminal")
}

func TestFetchMXSortedByPreference(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m,
			mustRR(t, "example.com. 300 IN MX 30 backup.example.com."),
			mustRR(t, "example.com. 300 IN MX 10 primary.example.com."),
			mustRR(t, "example.com. 300 IN MX 10 secondary.example.com."),
			mustRR(t, "example.com. 300 IN MX 20 relay.example.com."),
		), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeMX)
	require.Equal(t, StatusSuccess, out.Status)
	require.Len(t, out.Entries, 4)

	prefs := make([]uint16, 0, len(out.Entries))
	for _, e := range out.Entries {
		prefs = append(prefs, e.Priority)
	}
	assert.Equal(t, []uint16{10, 10, 20, 30}, prefs)
	// Equal preferences keep response order.
	assert.Equal(t, "primary.example.com.", out.Entries[0].Value)
	assert.Equal(t, "secondary.example.com.", out.Entries[1].Value)
}

func TestFetchTXTSegmentsConcatenated(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m,
			mustRR(t, `example.com. 300 IN TXT "v=spf1 " "include:_spf.example.com " "~all"`),
			mustRR(t, `example.com. 300 IN TXT "single"`),
		), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeTXT)
	require.Equal(t, StatusSuccess, out.Status)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "v=spf1 include:_spf.example.com ~all", out.Entries[0].Value)
	assert.Equal(t, "single", out.Entries[1].Value)
}

func TestFetchSOAFields(t *testing.T) {
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m,
			mustRR(t, "example.com. 3600 IN SOA ns1.example.com. hostmaster.example.com. 2024010101 7200 900 1209600 86400"),
		), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "example.com", TypeSOA)
	require.Equal(t, StatusSuccess, out.Status)
	require.Len(t, out.Entries, 1)

	soa := out.Entries[0].SOA
	require.NotNil(t, soa)
	assert.Equal(t, "ns1.example.com.", soa.PrimaryNS)
	assert.Equal(t, "hostmaster.example.com.", soa.Mailbox)
	assert.Equal(t, uint32(2024010101), soa.Serial)
	assert.Equal(t, uint32(7200), soa.Refresh)
	assert.Equal(t, uint32(900), soa.Retry)
	assert.Equal(t, uint32(1209600), soa.Expire)
	assert.Equal(t, uint32(86400), soa.Minimum)
	assert.Equal(t, "ns1.example.com.", out.Entries[0].Value)
}

func TestFetchFiltersForeignRecordTypes(t *testing.T) {
	// An A query for a CNAMEd name returns the CNAME alongside the
	// addresses; only the addresses are entries of this lookup.
	ex := &scriptedExchange{respond: func(_ int, m *dns.Msg) (*dns.Msg, error) {
		return successResponse(m,
			mustRR(t, "www.example.com. 300 IN CNAME example.com."),
			mustRR(t, "example.com. 300 IN A 93.184.216.34"),
		), nil
	}}
	f := newTestFetcher(0, ex)

	out := f.Fetch(context.Background(), "www.example.com", TypeA)
	require.Equal(t, StatusSuccess, out.Status)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "93.184.216.34", out.Entries[0].Value)
}

func TestNormalizeServer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"host and port kept", "9.9.9.9:5353", "9.9.9.9:5353"},
		{"bare host gets port 53", "9.9.9.9", "9.9.9.9:53"},
		{"whitespace trimmed", " 1.1.1.1:53 ", "1.1.1.1:53"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeServer(tt.in)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
