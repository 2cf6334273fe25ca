package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/phases"
	"github.com/felipemarinho97/cockpit-deploy/state"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

// DefaultPollInterval is how often a running command is polled.
const DefaultPollInterval = 30 * time.Second

// Executor triggers a phase on a target and watches the command to a
// terminal state.
type Executor interface {
	Execute(ctx context.Context, target state.Target, phase phases.Phase) (Result, error)
}

// Recorder stores execution records. Recording failures never affect
// the deployment outcome.
type Recorder interface {
	Record(ctx context.Context, rec ExecutionRecord) error
}

// SSMExecutor runs phases through SSM run command and polls the
// invocation until it finishes or the phase ceiling is spent.
type SSMExecutor struct {
	Client   clients.ISSMClient
	Logger   log.Logger
	Recorder Recorder      // optional
	Interval time.Duration // zero means DefaultPollInterval
}

func (e *SSMExecutor) Execute(ctx context.Context, target state.Target, phase phases.Phase) (Result, error) {
	interval := e.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	startedAt := time.Now()

	out, err := e.Client.SendCommand(ctx, &ssm.SendCommandInput{
		DocumentName: aws.String(phase.Document()),
		InstanceIds:  []string{target.ID},
		Comment:      aws.String(fmt.Sprintf("cockpit-deploy phase %s", phase.Name)),
	})
	if err != nil {
		return Result{}, fmt.Errorf("sending command for phase %s: %w", phase.Name, err)
	}

	commandID := util.GetValue(out.Command.CommandId)
	e.Logger.Info(fmt.Sprintf("phase %s started on %s (command %s)", phase.Name, target.ID, commandID))

	// round the ceiling up so short phases still get one poll
	attempts := int((phase.Timeout + interval - 1) / interval)
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(interval):
		}

		inv, err := e.Client.GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
			CommandId:  aws.String(commandID),
			InstanceId: aws.String(target.ID),
		})
		if err != nil {
			// tolerated: the invocation may not be visible yet
			e.Logger.Debug(fmt.Sprintf("polling phase %s: %s", phase.Name, err))
			continue
		}

		switch inv.Status {
		case types.CommandInvocationStatusSuccess:
			result := Result{Outcome: OutcomeSuccess, CommandID: commandID, Polls: i + 1}
			e.record(ctx, target, phase, result, startedAt)

			return result, nil
		case types.CommandInvocationStatusFailed,
			types.CommandInvocationStatusCancelled,
			types.CommandInvocationStatusTimedOut:
			result := Result{
				Outcome:   OutcomeFailure,
				CommandID: commandID,
				Details:   invocationDetails(inv),
				Polls:     i + 1,
			}
			e.record(ctx, target, phase, result, startedAt)

			return result, nil
		}

		e.Logger.Debug(fmt.Sprintf("phase %s is %s", phase.Name, inv.Status))
	}

	result := Result{
		Outcome:   OutcomeTimeout,
		CommandID: commandID,
		Details:   fmt.Sprintf("no terminal state after %s", phase.Timeout),
		Polls:     attempts,
	}
	e.record(ctx, target, phase, result, startedAt)

	return result, nil
}

// invocationDetails condenses a terminal invocation into a single
// operator-facing string, preferring stderr.
func invocationDetails(inv *ssm.GetCommandInvocationOutput) string {
	if s := strings.TrimSpace(util.GetValue(inv.StandardErrorContent)); s != "" {
		return s
	}
	if s := strings.TrimSpace(util.GetValue(inv.StandardOutputContent)); s != "" {
		return s
	}

	return string(inv.Status)
}

func (e *SSMExecutor) record(ctx context.Context, target state.Target, phase phases.Phase, result Result, startedAt time.Time) {
	if e.Recorder == nil {
		return
	}

	err := e.Recorder.Record(ctx, ExecutionRecord{
		TargetID:   target.ID,
		Phase:      string(phase.Name),
		CommandID:  result.CommandID,
		Outcome:    result.Outcome,
		Details:    result.Details,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	})
	if err != nil {
		e.Logger.Warn(fmt.Sprintf("could not record execution of phase %s: %s", phase.Name, err))
	}
}
