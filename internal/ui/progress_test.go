package ui

import (
	"fmt"
	"strings"
	"testing"

	"propguard/internal/pipeline"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("propguard lint", []string{"src/a.tsx", "src/b.tsx"}, events).(*progressModel)

	m.applyEvent(pipeline.Event{File: "src/a.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "src/b.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusCached, Problems: 2})
	m.applyEvent(pipeline.Event{Stage: pipeline.StageBind, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "unknown.tsx", Status: pipeline.StatusDone})

	if m.items[0].status != "linting" || m.items[1].status != "cached" {
		t.Fatalf("items = %+v", m.items)
	}
	view := m.View()
	for _, want := range []string{"propguard lint (binding)", "src/b.tsx", "1/2 files, 2 problems"} {
		if !strings.Contains(view, want) {
			t.Fatalf("missing %q in view:\n%s", want, view)
		}
	}
}

func TestProgressModelFinalEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("lint", []string{"a.tsx", "b.tsx", "c.tsx"}, events).(*progressModel)

	// синтаксическая ошибка не завершает файл
	m.applyEvent(pipeline.Event{File: "a.tsx", Stage: pipeline.StageParse, Status: pipeline.StatusError})
	if m.items[0].finished {
		t.Fatal("parse error must not finish the file")
	}
	m.applyEvent(pipeline.Event{File: "a.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusError, Problems: 3})
	m.applyEvent(pipeline.Event{File: "b.tsx", Stage: pipeline.StageLoad, Status: pipeline.StatusError})
	m.applyEvent(pipeline.Event{File: "c.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusDone, Problems: 1})
	// повторное событие не пересчитывается
	m.applyEvent(pipeline.Event{File: "c.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusDone, Problems: 1})

	if m.finished != 3 || m.problems != 4 {
		t.Fatalf("finished=%d problems=%d, want 3/4", m.finished, m.problems)
	}
	if got := strings.Join([]string{m.items[0].status, m.items[1].status, m.items[2].status}, ","); got != "error,error,done" {
		t.Fatalf("statuses = %s", got)
	}
}

func TestVisibleRowsWindow(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.tsx", i)
	}
	events := make(chan pipeline.Event)
	m := NewProgressModel("lint", files, events).(*progressModel)

	m.applyEvent(pipeline.Event{File: "f03.tsx", Stage: pipeline.StageLint, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "f10.tsx", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})

	rows := m.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("rows = %d, want %d", len(rows), maxRows)
	}
	if rows[0] != 10 || rows[1] != 3 || rows[2] != 0 {
		t.Fatalf("rows start with %v, want active, finished, then queue", rows[:3])
	}
	if view := m.View(); !strings.Contains(view, "... and 8 more") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("components/Button.tsx", 10); got != "comp..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.tsx", 10); got != "a.tsx" {
		t.Fatalf("truncate = %q", got)
	}
}
