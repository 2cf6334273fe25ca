package handlers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/samber/lo"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

type DestroySpec struct {
	ec2Client clients.IEC2Client
	ub        *util.UnknownBar
}

// Destroy terminates the recorded target, removes the security groups
// created for it and clears the local record. The phases already run on
// the instance are gone with it.
func (h *Handler) Destroy(ctx context.Context) error {
	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	client := h.EC2Client
	log := h.Logger

	ub := util.NewUnknownBar("Destroying..")
	ub.Start()
	defer ub.Stop()

	ds := &DestroySpec{
		ec2Client: client,
		ub:        ub,
	}

	instance, err := helpers.GetInstanceData(ctx, client, target.ID)
	if err != nil {
		log.Warn(fmt.Sprintf("Instance %s not found, clearing the record.", target.ID))
		return h.Store.Clear()
	}

	groupIDs := lo.Map(instance.SecurityGroups, func(g types.GroupIdentifier, _ int) string {
		return util.GetValue(g.GroupId)
	})

	err = helpers.TerminateTarget(ctx, client, log, target.ID)
	if err != nil {
		return err
	}

	// groups cannot be deleted while the instance still holds them
	_, err = helpers.WaitForInstanceState(ctx, client, target.ID, types.InstanceStateNameTerminated)
	if err != nil {
		return err
	}

	err = ds.destroySecurityGroups(ctx, groupIDs)
	if err != nil {
		return err
	}

	err = h.Store.Clear()
	if err != nil {
		return err
	}

	log.Info(fmt.Sprintf("Target %s destroyed.", target.ID))

	return nil
}

// destroySecurityGroups deletes the managed groups among the given IDs.
// Groups this tool did not create are left alone.
func (ds *DestroySpec) destroySecurityGroups(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}

	securityGroups, err := ds.ec2Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: groupIDs,
		Filters: []types.Filter{
			{
				Name:   aws.String("tag:managed-by"),
				Values: []string{"cockpit-deploy"},
			},
		},
	})
	if err != nil {
		return err
	}

	for _, securityGroup := range securityGroups.SecurityGroups {
		ds.ub.SetDescription(fmt.Sprintf("Destroying security group %s", *securityGroup.GroupId))
		_, err := ds.ec2Client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: securityGroup.GroupId,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
