package handlers

import (
	"context"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

type AllowIPOptions struct {
	// CIDR block to allow, empty resolves the caller's address
	CIDR string
}

// AllowIP opens ssh and the web console to another CIDR block, for when
// the operator's address changed since the target was provisioned.
func (h *Handler) AllowIP(ctx context.Context, opts AllowIPOptions) error {
	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	client := h.EC2Client
	log := h.Logger

	cidr := opts.CIDR
	if cidr == "" {
		cidr, err = helpers.CallerCIDR()
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("Caller address resolved to %s", cidr))
	}

	instance, err := helpers.GetInstanceData(ctx, client, target.ID)
	if err != nil {
		return err
	}

	name := util.GetTag(instance.Tags, "cockpit-deploy:target")
	if name == "" {
		return fmt.Errorf("instance %s does not carry the target tag", target.ID)
	}

	groups, err := helpers.GetTargetSecurityGroups(ctx, client, name)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("no managed security group found for target %s", name)
	}

	for _, group := range groups {
		log.Info(fmt.Sprintf("Allowing %s on security group %s..", cidr, util.GetValue(group.GroupId)))
		err = helpers.AuthorizeAccess(ctx, client, group.GroupId, cidr)
		if err != nil {
			return err
		}
	}

	return nil
}
