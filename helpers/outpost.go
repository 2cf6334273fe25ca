package helpers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/samber/lo"

	"github.com/felipemarinho97/cockpit-deploy/clients"
)

// FindOutpostSubnet picks an available subnet homed on the given
// Outpost.
func FindOutpostSubnet(ctx context.Context, client clients.IEC2Client, outpostArn string) (*types.Subnet, error) {
	out, err := client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("outpost-arn"),
				Values: []string{outpostArn},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	available := lo.Filter(out.Subnets, func(s types.Subnet, _ int) bool {
		return s.State == types.SubnetStateAvailable
	})
	if len(available) == 0 {
		return nil, fmt.Errorf("no available subnet on outpost %s", outpostArn)
	}

	return &available[0], nil
}

func GetSubnet(ctx context.Context, client clients.IEC2Client, subnetID string) (*types.Subnet, error) {
	out, err := client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		SubnetIds: []string{subnetID},
	})
	if err != nil {
		return nil, err
	}

	if len(out.Subnets) == 0 {
		return nil, fmt.Errorf("no subnet found with ID %s", subnetID)
	}

	return &out.Subnets[0], nil
}
