package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	"github.com/felipemarinho97/cockpit-deploy/state"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

type Config struct {
	// DefaultRegion is the AWS region used when no --region flag is given.
	DefaultRegion string `koanf:"default_region"`
	// StateFile overrides the location of the target record.
	StateFile string `koanf:"state_file"`
	// JournalFile overrides the location of the execution journal.
	JournalFile string `koanf:"journal_file"`

	SSH struct {
		// User is the login user for completion probes.
		User string `koanf:"user"`
		// Port is the ssh port on the target.
		Port int `koanf:"port" validate:"gte=0,lte=65535"`
		// IdentityFile is the private key used for probes.
		IdentityFile string `koanf:"identity_file"`
		// ConnectTimeout bounds each probe connection attempt.
		ConnectTimeout time.Duration `koanf:"connect_timeout"`
	} `koanf:"ssh"`

	Deploy struct {
		// PollInterval is the pause between command status polls.
		PollInterval time.Duration `koanf:"poll_interval"`
	} `koanf:"deploy"`

	Provision struct {
		// KeyName is the EC2 key pair installed on new targets.
		KeyName string `koanf:"key_name"`
		// InstanceType for new targets.
		InstanceType string `koanf:"instance_type"`
		// AMI pins an image instead of resolving the newest Amazon Linux.
		AMI string `koanf:"ami"`
		// SubnetID places new targets in a specific subnet.
		SubnetID string `koanf:"subnet_id"`
		// OutpostARN discovers the subnet of an Outpost instead.
		OutpostARN string `koanf:"outpost_arn"`
		// AllowCIDR is the block allowed to reach ssh and the console.
		// Empty means the caller's address is looked up and used alone.
		AllowCIDR string `koanf:"allow_cidr"`
		// InstanceProfile is the profile granting the target SSM access.
		InstanceProfile string `koanf:"instance_profile"`
	} `koanf:"provision"`
}

var (
	k                  = koanf.New(".")
	configPath         = ""
	AppConfig  *Config = &Config{}
)

func LoadConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	files := []string{
		fmt.Sprintf("%s/.config/cockpit-deploy/config.toml", home),
		fmt.Sprintf("%s/.cockpit-deploy/config.toml", home),
		"/etc/opt/cockpit-deploy/config.toml",
		"/etc/cockpit-deploy/config.toml",
		"config.toml",
	}

	tomlParser := toml.Parser()

	for _, _file := range files {
		if _, err := os.Stat(_file); err == nil {
			err := k.Load(file.Provider(_file), tomlParser)
			if err != nil {
				return err
			}
			configPath = _file
			break
		}
	}

	// Save targets the preferred location when no file exists yet.
	if configPath == "" {
		configPath = files[0]
	}

	err = k.Unmarshal("", AppConfig)
	if err != nil {
		return err
	}

	applyDefaults(AppConfig, home)

	err = util.Validator.Struct(*AppConfig)
	if err != nil {
		return err
	}

	return nil
}

func applyDefaults(c *Config, home string) {
	if c.DefaultRegion == "" {
		c.DefaultRegion = "us-east-1"
	}
	if c.StateFile == "" {
		if p, err := state.DefaultPath(); err == nil {
			c.StateFile = p
		}
	}
	c.StateFile = expandHome(c.StateFile, home)
	if c.JournalFile == "" {
		c.JournalFile = filepath.Join(filepath.Dir(c.StateFile), "journal.db")
	}
	c.JournalFile = expandHome(c.JournalFile, home)

	if c.SSH.User == "" {
		c.SSH.User = "ec2-user"
	}
	if c.SSH.Port == 0 {
		c.SSH.Port = 22
	}
	if c.SSH.IdentityFile == "" {
		c.SSH.IdentityFile = filepath.Join(home, ".ssh", "id_rsa")
	}
	c.SSH.IdentityFile = expandHome(c.SSH.IdentityFile, home)
	if c.SSH.ConnectTimeout == 0 {
		c.SSH.ConnectTimeout = 10 * time.Second
	}

	if c.Deploy.PollInterval == 0 {
		c.Deploy.PollInterval = 30 * time.Second
	}

	if c.Provision.InstanceType == "" {
		c.Provision.InstanceType = "c5.large"
	}
	if c.Provision.InstanceProfile == "" {
		c.Provision.InstanceProfile = "cockpit-deploy-ssm"
	}
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}

	return path
}

func (c *Config) Save() error {
	err := k.Load(structs.Provider(c, "koanf"), nil)
	if err != nil {
		return err
	}

	tomlParser := toml.Parser()
	b, err := tomlParser.Marshal(k.Raw())
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configPath), 0755)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(b)
	if err != nil {
		return err
	}

	fmt.Println("Config saved to", configPath)

	return nil
}
