package agenda

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/task"
)

type memPersistence []task.Task

func (m memPersistence) Load(context.Context) ([]task.Task, error) { return m, nil }
func (m memPersistence) Save(context.Context, []task.Task) error  { return nil }

func TestAgendaJSON(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }
	p := memPersistence{
		{ID: "late", Text: "late", Deadline: at(-time.Hour)},
		{ID: "soon", Text: "soon", Deadline: at(24 * time.Hour)},
		{ID: "far", Text: "far", Deadline: at(30 * 24 * time.Hour)},
		{ID: "none", Text: "no deadline"},
	}
	out := &bytes.Buffer{}
	n := &Agenda{
		Persistence: p,
		JSON:        true,
		Out:         out,
		Logger:      log.New(io.Discard, "", 0),
		Now:         func() time.Time { return now },
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("agenda: %v", err)
	}
	var got app.Agenda
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Overdue) != 1 || got.Overdue[0].ID != "late" {
		t.Fatalf("unexpected overdue %+v", got.Overdue)
	}
	if len(got.Due) != 1 || got.Due[0].ID != "soon" {
		t.Fatalf("unexpected due %+v", got.Due)
	}
	if !got.Until.Equal(now.Add(DefaultWindow)) {
		t.Fatalf("unexpected window end %v", got.Until)
	}
}
