package helpers

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

func TestGetPublicAddress(t *testing.T) {
	type args struct {
		instance *types.Instance
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "public ip wins",
			args: args{instance: &types.Instance{
				PublicIpAddress:  aws.String("198.51.100.7"),
				PublicDnsName:    aws.String("ec2-198-51-100-7.compute-1.amazonaws.com"),
				PrivateIpAddress: aws.String("10.0.0.5"),
			}},
			want: "198.51.100.7",
		},
		{
			name: "public dns when there is no public ip",
			args: args{instance: &types.Instance{
				PublicDnsName:    aws.String("ec2-198-51-100-7.compute-1.amazonaws.com"),
				PrivateIpAddress: aws.String("10.0.0.5"),
			}},
			want: "ec2-198-51-100-7.compute-1.amazonaws.com",
		},
		{
			name: "private address as the last resort",
			args: args{instance: &types.Instance{
				PrivateIpAddress: aws.String("10.0.0.5"),
			}},
			want: "10.0.0.5",
		},
		{
			name: "nothing known yet",
			args: args{instance: &types.Instance{}},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetPublicAddress(tt.args.instance); got != tt.want {
				t.Errorf("GetPublicAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}
