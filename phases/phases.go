package phases

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/samber/lo"
)

// Name identifies a deployment phase.
type Name string

const (
	Bootstrap  Name = "bootstrap"
	Updates    Name = "updates"
	Cockpit    Name = "cockpit"
	Extensions Name = "extensions"
	Finalize   Name = "finalize"
)

const (
	// DocumentPrefix is prepended to phase names to form SSM document names.
	DocumentPrefix = "cockpit-deploy-"

	// SentinelDir is the directory on the target holding completion records.
	SentinelDir = "/var/lib/cockpit-deploy/state"

	// SentinelSchema is the completion record revision this build understands.
	SentinelSchema = 1
)

var ErrUnknownPhase = errors.New("unknown phase")

// Phase is one remotely executed deployment step. Critical phases gate
// everything after them; non-critical phases only produce warnings when
// they fail.
type Phase struct {
	Name     Name
	Label    string
	Critical bool
	Timeout  time.Duration
}

// Document returns the name of the SSM document that runs this phase.
func (p Phase) Document() string {
	return DocumentPrefix + string(p.Name)
}

// SentinelPath returns the remote path of a phase completion record.
func SentinelPath(name Name) string {
	return path.Join(SentinelDir, string(name)+".json")
}

// Registry holds the phase catalog in execution order. It is immutable
// after construction.
type Registry struct {
	phases []Phase
	index  map[Name]int
}

func NewRegistry(list []Phase) (*Registry, error) {
	index := make(map[Name]int, len(list))
	for i, p := range list {
		if p.Name == "" {
			return nil, fmt.Errorf("phase at position %d has no name", i)
		}
		if _, ok := index[p.Name]; ok {
			return nil, fmt.Errorf("duplicate phase: %s", p.Name)
		}
		index[p.Name] = i
	}

	return &Registry{
		phases: append([]Phase(nil), list...),
		index:  index,
	}, nil
}

// Default returns the built-in phase catalog.
func Default() *Registry {
	r, err := NewRegistry([]Phase{
		{Name: Bootstrap, Label: "Base system preparation", Critical: true, Timeout: 10 * time.Minute},
		{Name: Updates, Label: "Operating system updates", Critical: true, Timeout: 45 * time.Minute},
		{Name: Cockpit, Label: "Cockpit web console", Critical: true, Timeout: 20 * time.Minute},
		{Name: Extensions, Label: "Console extensions", Critical: false, Timeout: 15 * time.Minute},
		{Name: Finalize, Label: "Deployment finalization", Critical: false, Timeout: 10 * time.Minute},
	})
	if err != nil {
		// the built-in catalog is static
		panic(err)
	}

	return r
}

// All returns the phases in execution order.
func (r *Registry) All() []Phase {
	return append([]Phase(nil), r.phases...)
}

// Lookup resolves a phase by name, wrapping ErrUnknownPhase when the
// name is not in the catalog.
func (r *Registry) Lookup(name Name) (Phase, error) {
	i, ok := r.index[name]
	if !ok {
		return Phase{}, fmt.Errorf("%w: %s", ErrUnknownPhase, name)
	}

	return r.phases[i], nil
}

// Names returns the phase names in execution order.
func (r *Registry) Names() []Name {
	return lo.Map(r.phases, func(p Phase, _ int) Name {
		return p.Name
	})
}
