// Package render formats lookup results for the terminal.
//
// Output is grouped per record type in display order, with lipgloss
// styling for interactive use and a plain mode for pipes and quiet runs.
// The renderer is a pure sink: it reads a lookup.Result and never
// re-queries anything.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jroosing/hydradig/internal/lookup"
)

// Styles holds the lipgloss styles used across the output.
type Styles struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Index   lipgloss.Style
	Value   lipgloss.Style
	Label   lipgloss.Style
	Missing lipgloss.Style
	Failure lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns the colorized style set.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Index:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Label:   lipgloss.NewStyle().Bold(true),
		Missing: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Divider: lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles returns an uncolored style set for non-terminal output.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header: plain, Section: plain, Index: plain, Value: plain,
		Label: plain, Missing: plain, Failure: plain, Divider: plain,
	}
}

var sectionTitles = map[lookup.RecordType]string{
	lookup.TypeA:     "A Records (IPv4 Addresses)",
	lookup.TypeAAAA:  "AAAA Records (IPv6 Addresses)",
	lookup.TypeCNAME: "CNAME Records (Canonical Names)",
	lookup.TypeMX:    "MX Records (Mail Servers)",
	lookup.TypeNS:    "NS Records (Name Servers)",
	lookup.TypeTXT:   "TXT Records (Text Records)",
	lookup.TypeSOA:   "SOA Records (Start of Authority)",
}

// Renderer renders lookup results.
type Renderer struct {
	styles       Styles
	maxTXTLength int
}

// New creates a Renderer. maxTXTLength truncates long TXT values for
// display; exports are never truncated.
func New(styles Styles, maxTXTLength int) *Renderer {
	if maxTXTLength <= 0 {
		maxTXTLength = 70
	}
	return &Renderer{styles: styles, maxTXTLength: maxTXTLength}
}

// Render formats the full result.
func (r *Renderer) Render(res lookup.Result) string {
	var b strings.Builder
	s := r.styles

	b.WriteString(s.Header.Render("DNS records for "+res.Domain.String()) + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat("-", 60)) + "\n")

	if res.DomainMissing() {
		b.WriteString(s.Failure.Render("domain does not exist") + "\n")
		return b.String()
	}

	for _, rt := range res.Types {
		outcome := res.Outcomes[rt]
		b.WriteString("\n" + s.Section.Render(sectionTitles[rt]) + "\n")
		r.renderOutcome(&b, rt, outcome)
	}

	if !res.HasRecords() {
		b.WriteString("\n" + s.Missing.Render("domain exists but has no records of the requested types") + "\n")
	}
	return b.String()
}

func (r *Renderer) renderOutcome(b *strings.Builder, rtype lookup.RecordType, outcome lookup.Outcome) {
	s := r.styles
	switch outcome.Status {
	case lookup.StatusSuccess:
		switch rtype {
		case lookup.TypeMX:
			r.renderMX(b, outcome.Entries)
		case lookup.TypeSOA:
			r.renderSOA(b, outcome.Entries)
		default:
			for i, e := range outcome.Entries {
				value := e.Value
				if rtype == lookup.TypeTXT {
					value = r.truncate(value)
				}
				fmt.Fprintf(b, "  %s %s\n", s.Index.Render(fmt.Sprintf("%d.", i+1)), s.Value.Render(value))
			}
		}
	case lookup.StatusNoRecords:
		b.WriteString("  " + s.Missing.Render("no records found") + "\n")
	case lookup.StatusTimeout:
		b.WriteString("  " + s.Failure.Render("query timed out") + "\n")
	case lookup.StatusError:
		b.WriteString("  " + s.Failure.Render("query failed: "+outcome.Err) + "\n")
	}
}

// renderMX prints a priority/exchange table, already sorted by the engine.
func (r *Renderer) renderMX(b *strings.Builder, entries []lookup.Entry) {
	s := r.styles
	b.WriteString("  " + s.Label.Render(fmt.Sprintf("%-10s %s", "Priority", "Mail Server")) + "\n")
	for _, e := range entries {
		fmt.Fprintf(b, "  %-10d %s\n", e.Priority, s.Value.Render(e.Value))
	}
}

func (r *Renderer) renderSOA(b *strings.Builder, entries []lookup.Entry) {
	s := r.styles
	for i, e := range entries {
		if e.SOA == nil {
			continue
		}
		soa := e.SOA
		fmt.Fprintf(b, "  %s %s %s\n", s.Index.Render(fmt.Sprintf("%d.", i+1)), s.Label.Render("Primary NS:"), s.Value.Render(soa.PrimaryNS))
		fmt.Fprintf(b, "     %s %s\n", s.Label.Render("Responsible:"), s.Value.Render(soa.Mailbox))
		fmt.Fprintf(b, "     %s %s\n", s.Label.Render("Serial:"), s.Value.Render(fmt.Sprintf("%d", soa.Serial)))
		fmt.Fprintf(b, "     %s %s, %s %s\n",
			s.Label.Render("Refresh:"), s.Value.Render(fmt.Sprintf("%ds", soa.Refresh)),
			s.Label.Render("Retry:"), s.Value.Render(fmt.Sprintf("%ds", soa.Retry)))
		fmt.Fprintf(b, "     %s %s, %s %s\n",
			s.Label.Render("Expire:"), s.Value.Render(fmt.Sprintf("%ds", soa.Expire)),
			s.Label.Render("Minimum:"), s.Value.Render(fmt.Sprintf("%ds", soa.Minimum)))
	}
}

func (r *Renderer) truncate(s string) string {
	if len(s) <= r.maxTXTLength {
		return s
	}
	if r.maxTXTLength <= 3 {
		return s[:r.maxTXTLength]
	}
	return s[:r.maxTXTLength-3] + "..."
}
