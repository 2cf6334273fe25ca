package handlers

import (
	"errors"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/clients"
	"github.com/felipemarinho97/cockpit-deploy/config"
	"github.com/felipemarinho97/cockpit-deploy/deploy"
	"github.com/felipemarinho97/cockpit-deploy/journal"
	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/phases"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

type Handler struct {
	Region    string
	EC2Client clients.IEC2Client
	SSMClient clients.ISSMClient
	IAMClient clients.IIAMClient
	Registry  *phases.Registry
	Store     state.Store
	Journal   *journal.Journal
	Config    *config.Config
	Logger    log.Logger
}

func NewHandler(region string, ec2Client clients.IEC2Client, ssmClient clients.ISSMClient, iamClient clients.IIAMClient, store state.Store, jrnl *journal.Journal, cfg *config.Config, logger log.Logger) *Handler {
	return &Handler{
		Region:    region,
		EC2Client: ec2Client,
		SSMClient: ssmClient,
		IAMClient: iamClient,
		Registry:  phases.Default(),
		Store:     store,
		Journal:   jrnl,
		Config:    cfg,
		Logger:    logger,
	}
}

// loadTarget fetches the persisted target record, turning a missing
// record into actionable advice.
func (h *Handler) loadTarget() (state.Target, error) {
	target, err := h.Store.Load()
	if errors.Is(err, state.ErrNoTarget) {
		return state.Target{}, fmt.Errorf("%w - run 'cockpit-deploy' to provision one", err)
	}
	return target, err
}

func (h *Handler) prober() deploy.Prober {
	return &deploy.SentinelProber{
		Runner: &deploy.SSHRunner{
			User:         h.Config.SSH.User,
			Port:         h.Config.SSH.Port,
			IdentityFile: h.Config.SSH.IdentityFile,
			Timeout:      h.Config.SSH.ConnectTimeout,
		},
		Logger: h.Logger,
	}
}

func (h *Handler) executor() deploy.Executor {
	executor := &deploy.SSMExecutor{
		Client:   h.SSMClient,
		Logger:   h.Logger,
		Interval: h.Config.Deploy.PollInterval,
	}
	// a nil *Journal inside a non-nil Recorder interface would blow up
	// on the first Record call
	if h.Journal != nil {
		executor.Recorder = h.Journal
	}
	return executor
}

func (h *Handler) planner() *deploy.Planner {
	return &deploy.Planner{
		Registry: h.Registry,
		Prober:   h.prober(),
		Executor: h.executor(),
		Logger:   h.Logger,
	}
}
