package helpers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/log"
)

const ssmCorePolicyArn = "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"

const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ec2.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

// EnsureInstanceProfile creates the instance profile that lets targets
// register with SSM, reusing it when it already exists. It reports
// whether the profile had to be created, so callers can wait out IAM
// propagation before launching.
func EnsureInstanceProfile(ctx context.Context, client clients.IIAMClient, log log.Logger, name string) (bool, error) {
	_, err := client.GetInstanceProfile(ctx, &iam.GetInstanceProfileInput{
		InstanceProfileName: aws.String(name),
	})
	if err == nil {
		return false, nil
	}
	var notFound *types.NoSuchEntityException
	if !errors.As(err, &notFound) {
		return false, err
	}

	log.Info(fmt.Sprintf("Creating instance profile %s with SSM access..", name))

	_, err = client.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(ec2TrustPolicy),
		Description:              aws.String("Lets cockpit-deploy targets register with SSM"),
	})
	if err != nil && !isEntityExists(err) {
		return false, err
	}

	_, err = client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(ssmCorePolicyArn),
	})
	if err != nil {
		return false, err
	}

	_, err = client.CreateInstanceProfile(ctx, &iam.CreateInstanceProfileInput{
		InstanceProfileName: aws.String(name),
	})
	if err != nil && !isEntityExists(err) {
		return false, err
	}

	_, err = client.AddRoleToInstanceProfile(ctx, &iam.AddRoleToInstanceProfileInput{
		InstanceProfileName: aws.String(name),
		RoleName:            aws.String(name),
	})
	if err != nil && !isEntityExists(err) {
		return false, err
	}

	return true, nil
}

func isEntityExists(err error) bool {
	var exists *types.EntityAlreadyExistsException
	return errors.As(err, &exists)
}
