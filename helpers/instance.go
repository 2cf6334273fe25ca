package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	uuid "github.com/satori/go.uuid"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

func GetInstanceData(ctx context.Context, client clients.IEC2Client, instanceID string) (*types.Instance, error) {
	instances, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, err
	}

	if len(instances.Reservations) == 0 {
		return nil, fmt.Errorf("no instance found with ID %s", instanceID)
	}

	if len(instances.Reservations[0].Instances) == 0 {
		return nil, fmt.Errorf("no instance found with ID %s", instanceID)
	}

	return &instances.Reservations[0].Instances[0], nil
}

type LaunchSpec struct {
	Name            string `validate:"required"`
	ImageID         string `validate:"required"`
	InstanceType    string `validate:"required"`
	KeyName         string `validate:"required"`
	SubnetID        string `validate:"required"`
	SecurityGroupID string `validate:"required"`
	InstanceProfile string
}

// LaunchTargetInstance runs a single on-demand instance for a deployment
// target, tagged so every other command can find it again.
func LaunchTargetInstance(ctx context.Context, client clients.IEC2Client, log log.Logger, spec LaunchSpec) (*types.Instance, error) {
	err := util.Validator.Struct(spec)
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("Launching instance for target %s..", spec.Name))

	input := &ec2.RunInstancesInput{
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		ClientToken:      aws.String(uuid.NewV4().String()),
		ImageId:          aws.String(spec.ImageID),
		InstanceType:     types.InstanceType(spec.InstanceType),
		KeyName:          aws.String(spec.KeyName),
		SubnetId:         aws.String(spec.SubnetID),
		SecurityGroupIds: []string{spec.SecurityGroupID},
		TagSpecifications: []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeInstance,
				Tags:         util.GenerateTags(spec.Name),
			},
			{
				ResourceType: types.ResourceTypeVolume,
				Tags:         util.GenerateTags(spec.Name),
			},
		},
	}

	if spec.InstanceProfile != "" {
		input.IamInstanceProfile = &types.IamInstanceProfileSpecification{
			Name: aws.String(spec.InstanceProfile),
		}
	}

	out, err := client.RunInstances(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("no instance launched for target %s", spec.Name)
	}

	return &out.Instances[0], nil
}

// WaitForInstanceState polls until the instance reaches the wanted
// state, bounded at roughly ten minutes.
func WaitForInstanceState(ctx context.Context, client clients.IEC2Client, instanceID string, wanted types.InstanceStateName) (*types.Instance, error) {
	ub := util.NewUnknownBar(fmt.Sprintf("Waiting for instance %s to be %s..", instanceID, wanted))
	ub.Start()
	defer ub.Stop()

	for i := 0; i < 120; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}

		instance, err := GetInstanceData(ctx, client, instanceID)
		if err != nil {
			continue
		}

		if instance.State != nil && instance.State.Name == wanted {
			return instance, nil
		}
	}

	return nil, fmt.Errorf("instance %s did not reach state %s", instanceID, wanted)
}

func TerminateTarget(ctx context.Context, client clients.IEC2Client, log log.Logger, instanceID string) error {
	log.Info(fmt.Sprintf("Terminating instance %s..", instanceID))

	_, err := client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})

	return err
}

// GetPublicAddress picks the address probes and the browser should use.
// Outpost targets without public connectivity are reached through their
// private address.
func GetPublicAddress(instance *types.Instance) string {
	if addr := util.GetValue(instance.PublicIpAddress); addr != "" {
		return addr
	}
	if addr := util.GetValue(instance.PublicDnsName); addr != "" {
		return addr
	}

	return util.GetValue(instance.PrivateIpAddress)
}
