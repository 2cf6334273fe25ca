package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

type stubEC2 struct {
	clients.IEC2Client
	instances map[string]types.InstanceStateName
}

func (s *stubEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	id := params.InstanceIds[0]
	stateName, ok := s.instances[id]
	if !ok {
		return nil, fmt.Errorf("InvalidInstanceID.NotFound: %s", id)
	}

	return &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{
				Instances: []types.Instance{
					{
						InstanceId: aws.String(id),
						State:      &types.InstanceState{Name: stateName},
					},
				},
			},
		},
	}, nil
}

func TestUsableTarget(t *testing.T) {
	type args struct {
		target    *state.Target
		instances map[string]types.InstanceStateName
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "no record",
			args: args{nil, nil},
			want: false,
		},
		{
			name: "running instance",
			args: args{
				&state.Target{ID: "i-0123", PublicAddress: "198.51.100.7"},
				map[string]types.InstanceStateName{"i-0123": types.InstanceStateNameRunning},
			},
			want: true,
		},
		{
			name: "terminated instance",
			args: args{
				&state.Target{ID: "i-0123"},
				map[string]types.InstanceStateName{"i-0123": types.InstanceStateNameTerminated},
			},
			want: false,
		},
		{
			name: "vanished instance",
			args: args{
				&state.Target{ID: "i-0123"},
				nil,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewMemStore()
			if tt.args.target != nil {
				if err := store.Save(*tt.args.target); err != nil {
					t.Fatal(err)
				}
			}

			h := &Handler{
				EC2Client: &stubEC2{instances: tt.args.instances},
				Store:     store,
				Logger:    testLogger{},
			}

			_, usable := h.usableTarget(context.Background())
			if usable != tt.want {
				t.Errorf("usableTarget() = %v, want %v", usable, tt.want)
			}
		})
	}
}
