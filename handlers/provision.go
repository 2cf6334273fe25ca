package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"gopkg.in/validator.v2"

	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/state"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

// ProvisionTemplate is the YAML form of the provisioning options, so a
// target description can live in version control.
type ProvisionTemplate struct {
	TargetName      string `yaml:"target_name"`
	KeyName         string `yaml:"key_name" validate:"nonzero"`
	InstanceType    string `yaml:"instance_type"`
	AMI             string `yaml:"ami"`
	SubnetID        string `yaml:"subnet_id"`
	OutpostARN      string `yaml:"outpost_arn"`
	AllowCIDR       string `yaml:"allow_cidr"`
	InstanceProfile string `yaml:"instance_profile"`
}

type ProvisionOptions struct {
	// Name of the deployment target
	Name string `validate:"required,min=1,max=128"`
	// KeyName is the EC2 key pair installed on the target
	KeyName string `validate:"required"`
	// InstanceType to launch
	InstanceType string `validate:"required"`
	// AMI pins an image, empty resolves the newest Amazon Linux 2023
	AMI string
	// SubnetID places the target, empty discovers one by OutpostARN
	SubnetID string
	// OutpostARN of the Outpost hosting the target
	OutpostARN string
	// AllowCIDR is the block allowed to reach ssh and the console,
	// empty restricts access to the caller's address
	AllowCIDR string
	// InstanceProfile grants the target SSM access
	InstanceProfile string `validate:"required"`
	// Template is a path or URL of a YAML target description
	Template string
}

// Provision launches and registers a fresh deployment target. The
// instance is ready for phases once this returns: running, reachable by
// SSM and recorded in the target store.
func (h *Handler) Provision(ctx context.Context, opts ProvisionOptions) (state.Target, error) {
	if opts.Template != "" {
		tpl, err := loadProvisionTemplate(opts.Template)
		if err != nil {
			return state.Target{}, err
		}
		opts = mergeTemplate(opts, tpl)
	}
	opts = h.withDefaults(opts)

	err := util.Validator.Struct(opts)
	if err != nil {
		return state.Target{}, err
	}

	if opts.SubnetID == "" && opts.OutpostARN == "" {
		return state.Target{}, fmt.Errorf("a subnet id or an outpost arn must be provided")
	}

	name := opts.Name
	client := h.EC2Client
	log := h.Logger

	ub := util.NewUnknownBar("Provisioning..")
	ub.Start()
	defer ub.Stop()

	// resolve the image
	var image *types.Image
	if opts.AMI != "" {
		image, err = helpers.GetImage(ctx, client, opts.AMI)
	} else {
		image, err = helpers.FindTargetAMI(ctx, client, types.ArchitectureValuesX8664)
	}
	if err != nil {
		return state.Target{}, err
	}
	log.Info(fmt.Sprintf("Using image: %s (%s)", util.GetValue(image.ImageId), util.GetValue(image.Name)))

	// resolve the subnet
	var subnet *types.Subnet
	if opts.SubnetID != "" {
		subnet, err = helpers.GetSubnet(ctx, client, opts.SubnetID)
	} else {
		subnet, err = helpers.FindOutpostSubnet(ctx, client, opts.OutpostARN)
	}
	if err != nil {
		return state.Target{}, err
	}
	log.Info(fmt.Sprintf("Using subnet: %s", util.GetValue(subnet.SubnetId)))

	// resolve the ingress block
	cidr := opts.AllowCIDR
	if cidr == "" {
		cidr, err = helpers.CallerCIDR()
		if err != nil {
			return state.Target{}, err
		}
		log.Info(fmt.Sprintf("Restricting access to the caller address: %s", cidr))
	}

	created, err := helpers.EnsureInstanceProfile(ctx, h.IAMClient, log, opts.InstanceProfile)
	if err != nil {
		return state.Target{}, err
	}
	if created {
		// fresh profiles take a moment to become visible to EC2
		log.Info("Waiting for the instance profile to propagate..")
		select {
		case <-ctx.Done():
			return state.Target{}, ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}

	// command documents must exist before any phase can run
	err = h.RegisterDocuments(ctx)
	if err != nil {
		return state.Target{}, err
	}

	groupID, err := helpers.CreateTargetSecurityGroup(ctx, client, log, name, util.GetValue(subnet.VpcId), cidr)
	if err != nil {
		return state.Target{}, err
	}

	instance, err := helpers.LaunchTargetInstance(ctx, client, log, helpers.LaunchSpec{
		Name:            name,
		ImageID:         util.GetValue(image.ImageId),
		InstanceType:    opts.InstanceType,
		KeyName:         opts.KeyName,
		SubnetID:        util.GetValue(subnet.SubnetId),
		SecurityGroupID: util.GetValue(groupID),
		InstanceProfile: opts.InstanceProfile,
	})
	if err != nil {
		return state.Target{}, err
	}

	id := util.GetValue(instance.InstanceId)
	log.Info(fmt.Sprintf("Instance launched: %s", id))

	instance, err = helpers.WaitForInstanceState(ctx, client, id, types.InstanceStateNameRunning)
	if err != nil {
		return state.Target{}, err
	}

	log.Info("Waiting for the instance to register with SSM.. This may take a few minutes..")
	err = helpers.WaitForManagedInstance(ctx, h.SSMClient, id)
	if err != nil {
		return state.Target{}, err
	}

	target := state.Target{
		ID:            id,
		PublicAddress: helpers.GetPublicAddress(instance),
	}
	err = h.Store.Save(target)
	if err != nil {
		return state.Target{}, err
	}

	log.Info(fmt.Sprintf("Target \"%s\" provisioned successfully.", name))

	return target, nil
}

func loadProvisionTemplate(location string) (*ProvisionTemplate, error) {
	var tpl ProvisionTemplate
	err := util.LoadYAML(location, &tpl)
	if err != nil {
		return nil, fmt.Errorf("error loading template: %v", err)
	}
	err = validator.Validate(tpl)
	if err != nil {
		return nil, fmt.Errorf("error validating template: %v", err)
	}

	return &tpl, nil
}

// mergeTemplate fills options left unset on the command line from the
// template. Flags win over the template.
func mergeTemplate(opts ProvisionOptions, tpl *ProvisionTemplate) ProvisionOptions {
	if opts.Name == "" {
		opts.Name = tpl.TargetName
	}
	if opts.KeyName == "" {
		opts.KeyName = tpl.KeyName
	}
	if opts.InstanceType == "" {
		opts.InstanceType = tpl.InstanceType
	}
	if opts.AMI == "" {
		opts.AMI = tpl.AMI
	}
	if opts.SubnetID == "" {
		opts.SubnetID = tpl.SubnetID
	}
	if opts.OutpostARN == "" {
		opts.OutpostARN = tpl.OutpostARN
	}
	if opts.AllowCIDR == "" {
		opts.AllowCIDR = tpl.AllowCIDR
	}
	if opts.InstanceProfile == "" {
		opts.InstanceProfile = tpl.InstanceProfile
	}
	return opts
}

// withDefaults fills options still unset from the loaded configuration.
// Defaults land last so flags and templates always win.
func (h *Handler) withDefaults(opts ProvisionOptions) ProvisionOptions {
	cfg := h.Config.Provision
	if opts.Name == "" {
		opts.Name = "cockpit"
	}
	if opts.KeyName == "" {
		opts.KeyName = cfg.KeyName
	}
	if opts.InstanceType == "" {
		opts.InstanceType = cfg.InstanceType
	}
	if opts.AMI == "" {
		opts.AMI = cfg.AMI
	}
	if opts.SubnetID == "" {
		opts.SubnetID = cfg.SubnetID
	}
	if opts.OutpostARN == "" {
		opts.OutpostARN = cfg.OutpostARN
	}
	if opts.AllowCIDR == "" {
		opts.AllowCIDR = cfg.AllowCIDR
	}
	if opts.InstanceProfile == "" {
		opts.InstanceProfile = cfg.InstanceProfile
	}
	return opts
}
