package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

type DeployOptions struct {
	ProvisionOptions
}

// Deploy is the zero-argument entrypoint. It provisions a target when
// no usable one is recorded, then resumes the phase walk on it. Running
// it twice in a row is safe, completed phases are skipped.
func (h *Handler) Deploy(ctx context.Context, opts DeployOptions) error {
	target, usable := h.usableTarget(ctx)
	if !usable {
		provisioned, err := h.Provision(ctx, opts.ProvisionOptions)
		if err != nil {
			return err
		}
		target = provisioned
	}

	return h.resumeTarget(ctx, target)
}

// usableTarget loads the recorded target and checks the instance still
// exists and is coming up or running. A stale record counts as no
// record at all.
func (h *Handler) usableTarget(ctx context.Context) (state.Target, bool) {
	target, err := h.Store.Load()
	if err != nil {
		if !errors.Is(err, state.ErrNoTarget) {
			h.Logger.Warn(fmt.Sprintf("Ignoring target record: %s", err))
		}
		return state.Target{}, false
	}

	instance, err := helpers.GetInstanceData(ctx, h.EC2Client, target.ID)
	if err != nil {
		h.Logger.Warn(fmt.Sprintf("Recorded target %s is gone, provisioning a new one.", target.ID))
		return state.Target{}, false
	}

	switch instance.State.Name {
	case types.InstanceStateNameRunning, types.InstanceStateNamePending:
		return target, true
	default:
		h.Logger.Warn(fmt.Sprintf("Recorded target %s is %s, provisioning a new one.", target.ID, instance.State.Name))
		return state.Target{}, false
	}
}
