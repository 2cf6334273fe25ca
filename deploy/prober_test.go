package deploy

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/felipemarinho97/cockpit-deploy/phases"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

type fakeRunner struct {
	out  string
	err  error
	cmds []string
}

func (r *fakeRunner) Run(ctx context.Context, target state.Target, cmd string) (string, error) {
	r.cmds = append(r.cmds, cmd)
	return r.out, r.err
}

func TestSentinelProber(t *testing.T) {
	target := state.Target{ID: "i-0123456789abcdef0", PublicAddress: "198.51.100.7"}
	phase := phases.Phase{Name: "bootstrap", Critical: true, Timeout: time.Minute}

	type args struct {
		out string
		err error
	}
	tests := []struct {
		name string
		args args
		want Status
	}{
		{
			name: "a valid completion record",
			args: args{out: `{"phase": "bootstrap", "schema": 1, "completed_at": "2024-04-02T10:30:00Z"}`},
			want: StatusCompleted,
		},
		{
			name: "a record written by a different phase",
			args: args{out: `{"phase": "updates", "schema": 1, "completed_at": "2024-04-02T10:30:00Z"}`},
			want: StatusNotStarted,
		},
		{
			name: "a record with an unknown schema",
			args: args{out: `{"phase": "bootstrap", "schema": 2, "completed_at": "2024-04-02T10:30:00Z"}`},
			want: StatusNotStarted,
		},
		{
			name: "a record that is not json",
			args: args{out: "cat: /var/lib/cockpit-deploy/state/bootstrap.json: Permission denied"},
			want: StatusNotStarted,
		},
		{
			name: "an empty record",
			args: args{out: ""},
			want: StatusNotStarted,
		},
		{
			name: "the record is missing on the host",
			args: args{err: fmt.Errorf("%w: exit status 1", ErrCommandFailed)},
			want: StatusNotStarted,
		},
		{
			name: "the host is unreachable",
			args: args{err: errors.New("dial tcp 198.51.100.7:22: i/o timeout")},
			want: StatusNotStarted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &SentinelProber{
				Runner: &fakeRunner{out: tt.args.out, err: tt.args.err},
				Logger: nopLogger{},
			}

			if got := prober.Probe(context.Background(), target, phase); got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinelProberReadsTheRightFile(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: exit status 1", ErrCommandFailed)}
	prober := &SentinelProber{Runner: runner, Logger: nopLogger{}}

	prober.Probe(context.Background(), state.Target{ID: "i-1"}, phases.Phase{Name: "cockpit"})

	want := "cat /var/lib/cockpit-deploy/state/cockpit.json"
	if len(runner.cmds) != 1 || runner.cmds[0] != want {
		t.Errorf("Probe() ran %v, want [%s]", runner.cmds, want)
	}
}

// statusRunner answers each phase probe from a canned set of records.
type statusRunner struct {
	records map[string]string
}

func (r *statusRunner) Run(ctx context.Context, target state.Target, cmd string) (string, error) {
	for path, record := range r.records {
		if cmd == "cat "+path {
			return record, nil
		}
	}

	return "", fmt.Errorf("%w: exit status 1", ErrCommandFailed)
}

func TestProbeAll(t *testing.T) {
	registry := testRegistry(t)
	runner := &statusRunner{records: map[string]string{
		phases.SentinelPath("bootstrap"): `{"phase": "bootstrap", "schema": 1, "completed_at": "2024-04-02T10:30:00Z"}`,
		phases.SentinelPath("updates"):   `{"phase": "updates", "schema": 1, "completed_at": "2024-04-02T10:42:00Z"}`,
	}}
	prober := &SentinelProber{Runner: runner, Logger: nopLogger{}}

	statuses := ProbeAll(context.Background(), registry, prober, state.Target{ID: "i-1", PublicAddress: "198.51.100.7"})

	want := map[phases.Name]Status{
		"bootstrap":  StatusCompleted,
		"updates":    StatusCompleted,
		"core":       StatusNotStarted,
		"extensions": StatusNotStarted,
		"finalize":   StatusNotStarted,
	}
	for name, status := range want {
		if statuses[name] != status {
			t.Errorf("ProbeAll()[%s] = %v, want %v", name, statuses[name], status)
		}
	}

	next, ok := NextPhase(registry, statuses)
	if !ok || next.Name != "core" {
		t.Errorf("NextPhase() = %v (ok=%v), want core", next.Name, ok)
	}
}

func TestParseCompletionRecord(t *testing.T) {
	raw := []byte(`{"phase": "cockpit", "schema": 1, "completed_at": "2024-04-02T10:30:00Z", "command_id": "abc-123"}`)

	rec, err := ParseCompletionRecord(raw, "cockpit")
	if err != nil {
		t.Fatalf("ParseCompletionRecord() error = %v", err)
	}

	if rec.CommandID != "abc-123" {
		t.Errorf("CommandID = %v, want abc-123", rec.CommandID)
	}
	if want := time.Date(2024, 4, 2, 10, 30, 0, 0, time.UTC); !rec.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", rec.CompletedAt, want)
	}
}
