package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/felipemarinho97/cockpit-deploy/handlers"
)

func deployCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.Deploy(c.Context, handlers.DeployOptions{})
}

func statusCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.Status(c.Context)
}

func resumeCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.Resume(c.Context)
}

func runPhaseCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	phase := c.String("phase")
	if phase == "" {
		phase = c.Args().First()
	}

	return h.RunPhase(c.Context, handlers.RunPhaseOptions{
		Phase: phase,
		Force: c.Bool("force"),
	})
}

func listPhasesCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.ListPhases(c.Context, handlers.ListPhasesOptions{
		Output: handlers.OutputFormat(c.String("output")),
	})
}

func invocationsCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.Invocations(c.Context, handlers.InvocationsOptions{
		Limit: c.Int("limit"),
	})
}

func historyCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.History(c.Context, handlers.HistoryOptions{
		Limit: c.Int("limit"),
		All:   c.Bool("all"),
	})
}

func urlCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.URL(c.Context)
}

func provisionCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	_, err := h.Provision(c.Context, handlers.ProvisionOptions{
		Name:            c.String("name"),
		KeyName:         c.String("key-name"),
		InstanceType:    c.String("instance-type"),
		AMI:             c.String("ami"),
		SubnetID:        c.String("subnet-id"),
		OutpostARN:      c.String("outpost-arn"),
		AllowCIDR:       c.String("allow-cidr"),
		InstanceProfile: c.String("instance-profile"),
		Template:        c.String("template"),
	})

	return err
}

func destroyCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.Destroy(c.Context)
}

func registerDocumentsCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.RegisterDocuments(c.Context)
}

func allowIPCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)

	return h.AllowIP(c.Context, handlers.AllowIPOptions{
		CIDR: c.String("cidr"),
	})
}

func configureCommand(c *cli.Context) error {
	h := c.Context.Value("handler").(*handlers.Handler)
	cfg := h.Config

	changed := false

	if v := c.String("default-region"); v != "" {
		cfg.DefaultRegion = v
		changed = true
	}
	if v := c.String("key-name"); v != "" {
		cfg.Provision.KeyName = v
		changed = true
	}
	if v := c.String("instance-type"); v != "" {
		cfg.Provision.InstanceType = v
		changed = true
	}
	if v := c.String("ami"); v != "" {
		cfg.Provision.AMI = v
		changed = true
	}
	if v := c.String("subnet-id"); v != "" {
		cfg.Provision.SubnetID = v
		changed = true
	}
	if v := c.String("outpost-arn"); v != "" {
		cfg.Provision.OutpostARN = v
		changed = true
	}
	if v := c.String("allow-cidr"); v != "" {
		cfg.Provision.AllowCIDR = v
		changed = true
	}
	if v := c.String("instance-profile"); v != "" {
		cfg.Provision.InstanceProfile = v
		changed = true
	}
	if v := c.String("ssh-user"); v != "" {
		cfg.SSH.User = v
		changed = true
	}
	if v := c.String("identity-file"); v != "" {
		cfg.SSH.IdentityFile = v
		changed = true
	}

	if changed {
		return cfg.Save()
	}

	// no flags, show the effective configuration
	fmt.Printf("Default Region: %s\n", cfg.DefaultRegion)
	fmt.Printf("State File: %s\n", cfg.StateFile)
	fmt.Printf("Journal File: %s\n", cfg.JournalFile)
	fmt.Printf("SSH User: %s\n", cfg.SSH.User)
	fmt.Printf("SSH Port: %d\n", cfg.SSH.Port)
	fmt.Printf("Identity File: %s\n", cfg.SSH.IdentityFile)
	fmt.Printf("Poll Interval: %s\n", cfg.Deploy.PollInterval)
	fmt.Printf("Key Name: %s\n", cfg.Provision.KeyName)
	fmt.Printf("Instance Type: %s\n", cfg.Provision.InstanceType)
	fmt.Printf("Instance Profile: %s\n", cfg.Provision.InstanceProfile)
	if cfg.Provision.AMI != "" {
		fmt.Printf("AMI: %s\n", cfg.Provision.AMI)
	}
	if cfg.Provision.SubnetID != "" {
		fmt.Printf("Subnet ID: %s\n", cfg.Provision.SubnetID)
	}
	if cfg.Provision.OutpostARN != "" {
		fmt.Printf("Outpost ARN: %s\n", cfg.Provision.OutpostARN)
	}
	if cfg.Provision.AllowCIDR != "" {
		fmt.Printf("Allow CIDR: %s\n", cfg.Provision.AllowCIDR)
	}

	return nil
}
