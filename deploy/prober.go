package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/phases"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

// ErrCommandFailed wraps remote commands that ran but exited non-zero.
var ErrCommandFailed = errors.New("remote command failed")

// Prober determines whether a phase already completed on a target.
type Prober interface {
	Probe(ctx context.Context, target state.Target, phase phases.Phase) Status
}

// RemoteRunner runs a command on a target and returns its stdout.
type RemoteRunner interface {
	Run(ctx context.Context, target state.Target, cmd string) (string, error)
}

// SentinelProber reads phase completion records from the target through
// a RemoteRunner. A missing, foreign, or unreadable record all mean
// not-started; an unreachable target is logged and also means
// not-started.
type SentinelProber struct {
	Runner RemoteRunner
	Logger log.Logger
}

func (p *SentinelProber) Probe(ctx context.Context, target state.Target, phase phases.Phase) Status {
	out, err := p.Runner.Run(ctx, target, fmt.Sprintf("cat %s", phases.SentinelPath(phase.Name)))
	if err != nil {
		if errors.Is(err, ErrCommandFailed) {
			// no record on the host yet
			p.Logger.Debug(fmt.Sprintf("phase %s has no completion record", phase.Name))
		} else {
			p.Logger.Warn(fmt.Sprintf("could not probe phase %s on %s: %s", phase.Name, target.PublicAddress, err))
		}

		return StatusNotStarted
	}

	rec, err := ParseCompletionRecord([]byte(out), phase.Name)
	if err != nil {
		p.Logger.Warn(fmt.Sprintf("ignoring completion record of phase %s: %s", phase.Name, err))
		return StatusNotStarted
	}

	p.Logger.Debug(fmt.Sprintf("phase %s completed at %s", phase.Name, rec.CompletedAt.Format(time.RFC3339)))

	return StatusCompleted
}

// ProbeAll asks the target about every phase in the catalog.
func ProbeAll(ctx context.Context, registry *phases.Registry, prober Prober, target state.Target) map[phases.Name]Status {
	statuses := make(map[phases.Name]Status)
	for _, phase := range registry.All() {
		statuses[phase.Name] = prober.Probe(ctx, target, phase)
	}

	return statuses
}
