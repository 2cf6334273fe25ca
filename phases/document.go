package phases

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type documentContent struct {
	SchemaVersion string         `yaml:"schemaVersion"`
	Description   string         `yaml:"description"`
	MainSteps     []documentStep `yaml:"mainSteps"`
}

type documentStep struct {
	Action string         `yaml:"action"`
	Name   string         `yaml:"name"`
	Inputs documentInputs `yaml:"inputs"`
}

type documentInputs struct {
	TimeoutSeconds string   `yaml:"timeoutSeconds"`
	RunCommand     []string `yaml:"runCommand"`
}

// RenderDocument produces the SSM command document content for a phase.
func RenderDocument(p Phase) (string, error) {
	script, err := Script(p.Name)
	if err != nil {
		return "", err
	}

	doc := documentContent{
		SchemaVersion: "2.2",
		Description:   fmt.Sprintf("cockpit-deploy phase %s: %s", p.Name, p.Label),
		MainSteps: []documentStep{
			{
				Action: "aws:runShellScript",
				// step names must match ^\w+$, phase names do
				Name: string(p.Name),
				Inputs: documentInputs{
					TimeoutSeconds: strconv.Itoa(int(p.Timeout.Seconds())),
					RunCommand:     strings.Split(script, "\n"),
				},
			},
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
