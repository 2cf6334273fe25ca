package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

// EnsureDocument registers an SSM command document, updating the default
// version in place when the content changed.
func EnsureDocument(ctx context.Context, client clients.ISSMClient, log log.Logger, name, content string) error {
	_, err := client.CreateDocument(ctx, &ssm.CreateDocumentInput{
		Name:           aws.String(name),
		Content:        aws.String(content),
		DocumentType:   types.DocumentTypeCommand,
		DocumentFormat: types.DocumentFormatYaml,
	})
	if err == nil {
		log.Info(fmt.Sprintf("Registered document %s", name))
		return nil
	}

	var exists *types.DocumentAlreadyExists
	if !errors.As(err, &exists) {
		return err
	}

	_, err = client.UpdateDocument(ctx, &ssm.UpdateDocumentInput{
		Name:            aws.String(name),
		Content:         aws.String(content),
		DocumentVersion: aws.String("$LATEST"),
		DocumentFormat:  types.DocumentFormatYaml,
	})
	if err != nil {
		var dup *types.DuplicateDocumentContent
		if errors.As(err, &dup) {
			log.Debug(fmt.Sprintf("Document %s is up to date", name))
			return nil
		}

		return err
	}

	log.Info(fmt.Sprintf("Updated document %s", name))

	return nil
}

// WaitForManagedInstance polls until the instance shows up online in
// SSM, bounded at roughly ten minutes.
func WaitForManagedInstance(ctx context.Context, client clients.ISSMClient, instanceID string) error {
	ub := util.NewUnknownBar(fmt.Sprintf("Waiting for instance %s to register with SSM..", instanceID))
	ub.Start()
	defer ub.Stop()

	for i := 0; i < 60; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
		}

		out, err := client.DescribeInstanceInformation(ctx, &ssm.DescribeInstanceInformationInput{
			Filters: []types.InstanceInformationStringFilter{
				{
					Key:    aws.String("InstanceIds"),
					Values: []string{instanceID},
				},
			},
		})
		if err != nil {
			continue
		}

		for _, info := range out.InstanceInformationList {
			if info.PingStatus == types.PingStatusOnline {
				return nil
			}
		}
	}

	return fmt.Errorf("instance %s never registered with SSM", instanceID)
}

// ListInvocations returns the commands sent to an instance as SSM
// reports them.
func ListInvocations(ctx context.Context, client clients.ISSMClient, instanceID string) ([]types.CommandInvocation, error) {
	out, err := client.ListCommandInvocations(ctx, &ssm.ListCommandInvocationsInput{
		InstanceId: aws.String(instanceID),
	})
	if err != nil {
		return nil, err
	}

	return out.CommandInvocations, nil
}
