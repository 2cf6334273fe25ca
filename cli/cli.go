package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	awsUtil "github.com/felipemarinho97/invest-path/util"
	"github.com/urfave/cli/v2"

	"github.com/felipemarinho97/cockpit-deploy/config"
	"github.com/felipemarinho97/cockpit-deploy/handlers"
	"github.com/felipemarinho97/cockpit-deploy/journal"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

const (
	ADM        = "ADMINISTRATION"
	DEPLOYMENT = "DEPLOYMENT"
)

func GetCLI() *cli.App {
	app := &cli.App{
		Name: "cockpit-deploy",
		Authors: []*cli.Author{
			{
				Name:  "Felipe Marinho",
				Email: "felipevm97@gmail.com",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "AWS region",
				EnvVars: []string{"AWS_REGION"},
			},
		},
		EnableBashCompletion: true,
		Usage:                "CLI to install the Cockpit web console on an AWS Outposts instance",
		Action:               deployCommand,
		Compiled:             time.Now(),
		Before: func(ctx *cli.Context) error {
			return loadClients(ctx)
		},
		After: func(ctx *cli.Context) error {
			return closeJournal(ctx)
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "status",
			Description: "Probes the target and shows the completion state of every phase.",
			Category:    DEPLOYMENT,
			Action:      statusCommand,
		},
		{
			Name:        "resume",
			Description: "Continues the deployment from the first phase the target does not report complete.",
			Category:    DEPLOYMENT,
			Action:      resumeCommand,
		},
		{
			Name:        "run-phase",
			Description: "Executes a single phase on the target.",
			Usage:       "-p <phase> [-f]",
			Category:    DEPLOYMENT,
			Action:      runPhaseCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "phase",
					Aliases: []string{"p"},
					Usage:   "The name of the phase",
				},
				&cli.BoolFlag{
					Name:    "force",
					Aliases: []string{"f"},
					Usage:   "Run the phase even when the target reports it complete",
				},
			},
		},
		{
			Name:        "list-phases",
			Description: "Lists the phase catalog in execution order.",
			Usage:       "[-o <output>]",
			Category:    DEPLOYMENT,
			Action:      listPhasesCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Usage:   "Output format: short or wide",
					Aliases: []string{"o"},
					Value:   "short",
				},
			},
		},
		{
			Name:        "invocations",
			Description: "Lists the command invocations AWS has on file for the target.",
			Usage:       "[-l <limit>]",
			Category:    DEPLOYMENT,
			Action:      invocationsCommand,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   0,
					Usage:   "Maximum number of invocations to show",
				},
			},
		},
		{
			Name:        "history",
			Description: "Lists past execution attempts from the local journal.",
			Usage:       "[-l <limit> -a]",
			Category:    DEPLOYMENT,
			Action:      historyCommand,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   0,
					Usage:   "Maximum number of attempts to show",
				},
				&cli.BoolFlag{
					Name:    "all",
					Aliases: []string{"a"},
					Usage:   "Show attempts for every target, not just the current one",
				},
			},
		},
		{
			Name:        "url",
			Description: "Prints the web console address of the target.",
			Category:    DEPLOYMENT,
			Action:      urlCommand,
		},
		{
			Name:        "provision",
			Description: "Launches and registers a fresh deployment target without running any phase.",
			Usage:       "[-n <name> -k <key-name> --outpost-arn <arn> | --template <file>]",
			Category:    ADM,
			Action:      provisionCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "The name of the deployment target",
				},
				&cli.StringFlag{
					Name:    "key-name",
					Aliases: []string{"k"},
					Usage:   "Name of the SSH key pair to use",
				},
				&cli.StringFlag{
					Name:    "instance-type",
					Aliases: []string{"t"},
					Usage:   "Instance type to launch",
				},
				&cli.StringFlag{
					Name:    "ami",
					Aliases: []string{"i"},
					Usage:   "Amazon Machine Image to use, defaults to the newest Amazon Linux 2023",
				},
				&cli.StringFlag{
					Name:    "subnet-id",
					Aliases: []string{"s"},
					Usage:   "Subnet to place the target in",
				},
				&cli.StringFlag{
					Name:  "outpost-arn",
					Usage: "Outpost to discover the subnet from",
				},
				&cli.StringFlag{
					Name:  "allow-cidr",
					Usage: "CIDR block allowed to reach ssh and the web console, defaults to the caller address",
				},
				&cli.StringFlag{
					Name:    "instance-profile",
					Aliases: []string{"p"},
					Usage:   "IAM instance profile granting the target SSM access",
				},
				&cli.StringFlag{
					Name:  "template",
					Usage: "The target description (file or url) to use",
				},
			},
		},
		{
			Name:        "destroy",
			Description: "Terminates the target and removes the resources created for it.",
			Category:    ADM,
			Action:      destroyCommand,
		},
		{
			Name:        "register-documents",
			Description: "Renders and registers the SSM command document of every phase.",
			Category:    ADM,
			Action:      registerDocumentsCommand,
		},
		{
			Name:        "allow-ip",
			Description: "Opens ssh and the web console to another CIDR block.",
			Usage:       "[--cidr <cidr>]",
			Category:    ADM,
			Action:      allowIPCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "cidr",
					Usage: "CIDR block to allow, defaults to the caller address",
				},
			},
		},
		{
			Name:        "configure",
			Description: "Persists defaults to the config file, or shows the effective configuration.",
			Usage:       "[--default-region <region> --key-name <name> ...]",
			Category:    ADM,
			Action:      configureCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "default-region",
					Usage: "AWS region used when no --region flag is given",
				},
				&cli.StringFlag{
					Name:  "key-name",
					Usage: "EC2 key pair installed on new targets",
				},
				&cli.StringFlag{
					Name:  "instance-type",
					Usage: "Instance type for new targets",
				},
				&cli.StringFlag{
					Name:  "ami",
					Usage: "Amazon Machine Image for new targets",
				},
				&cli.StringFlag{
					Name:  "subnet-id",
					Usage: "Subnet to place new targets in",
				},
				&cli.StringFlag{
					Name:  "outpost-arn",
					Usage: "Outpost to discover the subnet from",
				},
				&cli.StringFlag{
					Name:  "allow-cidr",
					Usage: "CIDR block allowed to reach ssh and the web console",
				},
				&cli.StringFlag{
					Name:  "instance-profile",
					Usage: "IAM instance profile granting targets SSM access",
				},
				&cli.StringFlag{
					Name:  "ssh-user",
					Usage: "Login user for completion probes",
				},
				&cli.StringFlag{
					Name:  "identity-file",
					Usage: "Private key used for completion probes",
				},
			},
		},
	}

	return app
}

func loadClients(c *cli.Context) error {
	err := config.LoadConfig()
	if err != nil {
		return err
	}
	cfg := config.AppConfig

	awsConfig, err := awsUtil.LoadAWSConfig()
	if err != nil {
		return err
	}
	awsConfig.Region = c.String("region")
	if awsConfig.Region == "" {
		awsConfig.Region = cfg.DefaultRegion
	}

	client := ec2.NewFromConfig(awsConfig)
	ssmClient := ssm.NewFromConfig(awsConfig)
	iamClient := iam.NewFromConfig(awsConfig)
	logger := log.NewCLILogger()

	store := state.NewFileStore(cfg.StateFile)

	jrnl, err := journal.Open(cfg.JournalFile)
	if err != nil {
		// the journal is advisory, a broken one must not block deploys
		logger.Warn(fmt.Sprintf("Execution journal unavailable: %s", err))
		jrnl = nil
	}

	handler := handlers.NewHandler(awsConfig.Region, client, ssmClient, iamClient, store, jrnl, cfg, logger)

	// inject the handler into the context
	c.Context = context.WithValue(c.Context, "handler", handler)

	return nil
}

func closeJournal(c *cli.Context) error {
	h, ok := c.Context.Value("handler").(*handlers.Handler)
	if !ok || h.Journal == nil {
		return nil
	}

	return h.Journal.Close()
}
