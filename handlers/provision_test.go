package handlers

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/felipemarinho97/cockpit-deploy/config"
)

func TestMergeTemplate(t *testing.T) {
	tpl := &ProvisionTemplate{
		TargetName:   "lab",
		KeyName:      "lab-key",
		InstanceType: "m5.large",
		OutpostARN:   "arn:aws:outposts:us-east-1:111111111111:outpost/op-0ab1c2d3",
	}

	opts := mergeTemplate(ProvisionOptions{Name: "edge", Template: "lab.yaml"}, tpl)

	if opts.Name != "edge" {
		t.Errorf("expected the flag name to win, got %s", opts.Name)
	}
	if opts.KeyName != "lab-key" || opts.InstanceType != "m5.large" {
		t.Errorf("expected the template to fill unset options, got %+v", opts)
	}
	if opts.OutpostARN != "arn:aws:outposts:us-east-1:111111111111:outpost/op-0ab1c2d3" {
		t.Errorf("expected the outpost arn from the template, got %s", opts.OutpostARN)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Provision.KeyName = "default-key"
	cfg.Provision.InstanceType = "c5.large"
	cfg.Provision.InstanceProfile = "cockpit-deploy-ssm"

	h := &Handler{Config: cfg}

	opts := h.withDefaults(ProvisionOptions{InstanceType: "m5.xlarge"})

	if opts.Name != "cockpit" {
		t.Errorf("expected the default target name, got %s", opts.Name)
	}
	if opts.InstanceType != "m5.xlarge" {
		t.Errorf("expected the explicit instance type to win, got %s", opts.InstanceType)
	}
	if opts.KeyName != "default-key" || opts.InstanceProfile != "cockpit-deploy-ssm" {
		t.Errorf("expected config defaults to fill unset options, got %+v", opts)
	}
}

func TestLoadProvisionTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.yaml")
	content := `target_name: lab
key_name: lab-key
outpost_arn: arn:aws:outposts:us-east-1:111111111111:outpost/op-0ab1c2d3
allow_cidr: 10.0.0.0/8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tpl, err := loadProvisionTemplate(path)
	if err != nil {
		t.Fatalf("expected the template to load, got %v", err)
	}

	want := &ProvisionTemplate{
		TargetName: "lab",
		KeyName:    "lab-key",
		OutpostARN: "arn:aws:outposts:us-east-1:111111111111:outpost/op-0ab1c2d3",
		AllowCIDR:  "10.0.0.0/8",
	}
	if !reflect.DeepEqual(tpl, want) {
		t.Errorf("loadProvisionTemplate() = %+v, want %+v", tpl, want)
	}
}

func TestLoadProvisionTemplateRejectsMissingKeyName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.yaml")
	if err := os.WriteFile(path, []byte("target_name: lab\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadProvisionTemplate(path); err == nil {
		t.Error("expected a validation error for a template without key_name")
	}
}
