package util

import (
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go/aws"
)

func TestIsManaged(t *testing.T) {
	type args struct {
		tags []types.Tag
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "tags contain the managed-by marker",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("managed-by"), Value: aws.String("cockpit-deploy")},
				},
			},
			want: true,
		},
		{
			name: "tags contain a foreign managed-by marker",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("managed-by"), Value: aws.String("terraform")},
				},
			},
			want: false,
		},
		{
			name: "tags are empty",
			args: args{
				tags: []types.Tag{},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsManaged(tt.args.tags); got != tt.want {
				t.Errorf("IsManaged() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTarget(t *testing.T) {
	type args struct {
		tags       []types.Tag
		targetName string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "tags contain the target name",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("cockpit-deploy:target"), Value: aws.String("outpost-console")},
				},
				targetName: "outpost-console",
			},
			want: true,
		},
		{
			name: "tags contain a different target name",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("cockpit-deploy:target"), Value: aws.String("other")},
				},
				targetName: "outpost-console",
			},
			want: false,
		},
		{
			name: "empty target name matches any managed target",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("managed-by"), Value: aws.String("cockpit-deploy")},
				},
				targetName: "",
			},
			want: true,
		},
		{
			name: "empty target name does not match unmanaged resources",
			args: args{
				tags: []types.Tag{
					{Key: aws.String("Name"), Value: aws.String("something")},
				},
				targetName: "",
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTarget(tt.args.tags, tt.args.targetName); got != tt.want {
				t.Errorf("IsTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetTag(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("managed-by"), Value: aws.String("cockpit-deploy")},
		{Key: aws.String("Name"), Value: aws.String("outpost-console")},
	}

	type args struct {
		tags []types.Tag
		key  string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "the key is present",
			args: args{tags: tags, key: "Name"},
			want: "outpost-console",
		},
		{
			name: "the key is absent",
			args: args{tags: tags, key: "missing"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetTag(tt.args.tags, tt.args.key); got != tt.want {
				t.Errorf("GetTag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateTags(t *testing.T) {
	got := GenerateTags("outpost-console")

	want := []types.Tag{
		{Key: aws.String("managed-by"), Value: aws.String("cockpit-deploy")},
		{Key: aws.String("cockpit-deploy:target"), Value: aws.String("outpost-console")},
		{Key: aws.String("Name"), Value: aws.String("outpost-console")},
	}

	if len(got) != len(want) {
		t.Fatalf("GenerateTags() returned %d tags, want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(*got[i].Key, *want[i].Key) || !reflect.DeepEqual(*got[i].Value, *want[i].Value) {
			t.Errorf("GenerateTags()[%d] = %s=%s, want %s=%s", i, *got[i].Key, *got[i].Value, *want[i].Key, *want[i].Value)
		}
	}

	if !IsManaged(got) {
		t.Errorf("GenerateTags() produced tags not recognized by IsManaged()")
	}
	if !IsTarget(got, "outpost-console") {
		t.Errorf("GenerateTags() produced tags not recognized by IsTarget()")
	}
}

func TestGetValue(t *testing.T) {
	if got := GetValue(nil); got != "" {
		t.Errorf("GetValue(nil) = %v, want empty string", got)
	}
	if got := GetValue(aws.String("x")); got != "x" {
		t.Errorf("GetValue() = %v, want x", got)
	}
}
