package helpers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

// CreateTargetSecurityGroup creates the group guarding a target and
// opens ssh and the web console for one CIDR block only.
func CreateTargetSecurityGroup(ctx context.Context, client clients.IEC2Client, log log.Logger, name, vpcID, cidr string) (*string, error) {
	log.Info("Creating security group..")

	out, err := client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		Description: aws.String(fmt.Sprintf("Security group for cockpit-deploy target %s", name)),
		TagSpecifications: []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeSecurityGroup,
				Tags:         util.GenerateTags(name),
			},
		},
		VpcId: aws.String(vpcID),
	})
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("Adding ingress rules for ssh and the web console from %s..", cidr))
	err = AuthorizeAccess(ctx, client, out.GroupId, cidr)
	if err != nil {
		return nil, err
	}

	return out.GroupId, nil
}

// AuthorizeAccess opens ssh and the web console port for a CIDR block.
func AuthorizeAccess(ctx context.Context, client clients.IEC2Client, groupID *string, cidr string) error {
	_, err := client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: groupID,
		IpPermissions: []types.IpPermission{
			{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(22),
				ToPort:     aws.Int32(22),
				IpRanges: []types.IpRange{
					{
						Description: aws.String("SSH for completion probes"),
						CidrIp:      aws.String(cidr),
					},
				},
			},
			{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(9090),
				ToPort:     aws.Int32(9090),
				IpRanges: []types.IpRange{
					{
						Description: aws.String("Cockpit web console"),
						CidrIp:      aws.String(cidr),
					},
				},
			},
		},
	})

	return err
}

// GetTargetSecurityGroups lists the managed groups of a target.
func GetTargetSecurityGroups(ctx context.Context, client clients.IEC2Client, name string) ([]types.SecurityGroup, error) {
	out, err := client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("tag:managed-by"),
				Values: []string{"cockpit-deploy"},
			},
			{
				Name:   aws.String("tag:cockpit-deploy:target"),
				Values: []string{name},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return out.SecurityGroups, nil
}
