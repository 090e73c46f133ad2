package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jroosing/hydradig/internal/lookup"
	"github.com/jroosing/hydradig/internal/render"
)

func testDeps() Deps {
	run := func(_ context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result {
		return lookup.Result{
			Domain: domain,
			Time:   time.Now().UTC(),
			Types:  []lookup.RecordType{lookup.TypeA},
			Outcomes: map[lookup.RecordType]lookup.Outcome{
				lookup.TypeA: {Status: lookup.StatusSuccess, Entries: []lookup.Entry{{Value: "192.0.2.1"}}},
			},
		}
	}
	return Deps{
		RunLookup: run,
		Renderer:  render.New(render.PlainStyles(), 70),
		Types:     []lookup.RecordType{lookup.TypeA},
	}
}

func TestSubmitRejectsInvalidDomain(t *testing.T) {
	m := newModel(testDeps())
	m.input.SetValue("not a domain")

	next, cmd := m.submit()
	got := next.(model)
	if got.scr != screenInput {
		t.Fatalf("scr = %v, want input screen", got.scr)
	}
	if got.lastErr == nil {
		t.Fatal("expected validation error")
	}
	if cmd != nil {
		t.Fatal("expected no command for invalid input")
	}
}

func TestSubmitRunsLookup(t *testing.T) {
	m := newModel(testDeps())
	m.input.SetValue("example.com")

	next, cmd := m.submit()
	got := next.(model)
	if got.scr != screenBusy {
		t.Fatalf("scr = %v, want busy screen", got.scr)
	}
	if cmd == nil {
		t.Fatal("expected lookup command")
	}
}

func TestLookupDoneShowsResult(t *testing.T) {
	m := newModel(testDeps())
	m.scr = screenBusy

	msg := lookupDoneMsg{rendered: "rendered result"}
	next, _ := m.Update(msg)
	got := next.(model)
	if got.scr != screenResult {
		t.Fatalf("scr = %v, want result screen", got.scr)
	}
	if !strings.Contains(got.View(), "rendered result") {
		t.Fatal("view should contain the rendered result")
	}
}

func TestTypingQReachesInput(t *testing.T) {
	m := newModel(testDeps())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := next.(model)
	if cmd != nil {
		if msg := cmd(); msg == tea.Quit() {
			t.Fatal("typing 'q' must not quit the program")
		}
	}
	if got.input.Value() != "q" {
		t.Fatalf("input value = %q, want %q", got.input.Value(), "q")
	}
}

func TestQReturnsFromResultScreen(t *testing.T) {
	m := newModel(testDeps())
	m.scr = screenResult
	m.result = "rendered result"

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := next.(model)
	if got.scr != screenInput {
		t.Fatalf("scr = %v, want input screen", got.scr)
	}
	if got.input.Value() != "" {
		t.Fatalf("input value = %q, want empty for a fresh prompt", got.input.Value())
	}
}

func TestQuitFromInput(t *testing.T) {
	m := newModel(testDeps())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("msg = %v, want tea.Quit", msg)
	}
}
