package phases

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v2"
)

func TestDefaultRegistryOrder(t *testing.T) {
	got := Default().Names()

	want := []Name{Bootstrap, Updates, Cockpit, Extensions, Finalize}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Default().Names() = %v, want %v", got, want)
	}
}

func TestDefaultRegistryCriticality(t *testing.T) {
	want := map[Name]bool{
		Bootstrap:  true,
		Updates:    true,
		Cockpit:    true,
		Extensions: false,
		Finalize:   false,
	}

	for _, p := range Default().All() {
		if p.Critical != want[p.Name] {
			t.Errorf("phase %s critical = %v, want %v", p.Name, p.Critical, want[p.Name])
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	r := Default()

	type args struct {
		name Name
	}
	tests := []struct {
		name    string
		args    args
		want    Name
		wantErr bool
	}{
		{
			name: "a phase in the catalog",
			args: args{name: Cockpit},
			want: Cockpit,
		},
		{
			name:    "a phase not in the catalog",
			args:    args{name: "provision"},
			wantErr: true,
		},
		{
			name:    "the empty name",
			args:    args{name: ""},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Lookup(tt.args.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPhase) {
					t.Errorf("Lookup() error = %v, want ErrUnknownPhase", err)
				}
				return
			}
			if got.Name != tt.want {
				t.Errorf("Lookup() = %v, want %v", got.Name, tt.want)
			}
		})
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Phase{
		{Name: Bootstrap, Timeout: time.Minute},
		{Name: Bootstrap, Timeout: time.Minute},
	})
	if err == nil {
		t.Fatal("NewRegistry() accepted a duplicate phase name")
	}
}

func TestNewRegistryRejectsUnnamedPhases(t *testing.T) {
	_, err := NewRegistry([]Phase{
		{Name: "", Timeout: time.Minute},
	})
	if err == nil {
		t.Fatal("NewRegistry() accepted a phase without a name")
	}
}

func TestRegistryAllReturnsACopy(t *testing.T) {
	r := Default()

	all := r.All()
	all[0].Name = "mutated"

	if r.All()[0].Name != Bootstrap {
		t.Error("mutating the slice returned by All() changed the registry")
	}
}

func TestDocumentNames(t *testing.T) {
	for _, p := range Default().All() {
		want := "cockpit-deploy-" + string(p.Name)
		if got := p.Document(); got != want {
			t.Errorf("Document() = %v, want %v", got, want)
		}
	}
}

func TestSentinelPath(t *testing.T) {
	if got, want := SentinelPath(Cockpit), "/var/lib/cockpit-deploy/state/cockpit.json"; got != want {
		t.Errorf("SentinelPath() = %v, want %v", got, want)
	}
}

func TestScriptWritesCompletionRecord(t *testing.T) {
	for _, p := range Default().All() {
		script, err := Script(p.Name)
		if err != nil {
			t.Fatalf("Script(%s) error = %v", p.Name, err)
		}

		if !strings.Contains(script, SentinelPath(p.Name)) {
			t.Errorf("script for %s does not write its completion record", p.Name)
		}
		if !strings.Contains(script, `"phase": "`+string(p.Name)+`"`) {
			t.Errorf("script for %s does not embed its own phase name", p.Name)
		}
		if !strings.HasPrefix(script, "#!/bin/bash -xe") {
			t.Errorf("script for %s does not abort on first failure", p.Name)
		}
	}
}

func TestScriptUnknownPhase(t *testing.T) {
	_, err := Script("nope")
	if !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("Script() error = %v, want ErrUnknownPhase", err)
	}
}

func TestRenderDocument(t *testing.T) {
	p, err := Default().Lookup(Cockpit)
	if err != nil {
		t.Fatal(err)
	}

	content, err := RenderDocument(p)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}

	var doc struct {
		SchemaVersion string `yaml:"schemaVersion"`
		MainSteps     []struct {
			Action string `yaml:"action"`
			Name   string `yaml:"name"`
			Inputs struct {
				TimeoutSeconds string   `yaml:"timeoutSeconds"`
				RunCommand     []string `yaml:"runCommand"`
			} `yaml:"inputs"`
		} `yaml:"mainSteps"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		t.Fatalf("rendered document is not valid yaml: %v", err)
	}

	if doc.SchemaVersion != "2.2" {
		t.Errorf("schemaVersion = %v, want 2.2", doc.SchemaVersion)
	}
	if len(doc.MainSteps) != 1 {
		t.Fatalf("mainSteps has %d entries, want 1", len(doc.MainSteps))
	}

	step := doc.MainSteps[0]
	if step.Action != "aws:runShellScript" {
		t.Errorf("step action = %v, want aws:runShellScript", step.Action)
	}
	if step.Name != string(Cockpit) {
		t.Errorf("step name = %v, want %v", step.Name, Cockpit)
	}
	if step.Inputs.TimeoutSeconds != "1200" {
		t.Errorf("timeoutSeconds = %v, want 1200", step.Inputs.TimeoutSeconds)
	}

	joined := strings.Join(step.Inputs.RunCommand, "\n")
	if !strings.Contains(joined, "cockpit.socket") {
		t.Error("rendered script does not enable the console socket")
	}
	if !strings.Contains(joined, SentinelPath(Cockpit)) {
		t.Error("rendered script does not write the completion record")
	}
}
