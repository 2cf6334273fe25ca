package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/felipemarinho97/cockpit-deploy/state"
)

// SSHRunner runs commands on the target over SSH. A fresh connection is
// dialed per command; probes are short-lived and infrequent.
type SSHRunner struct {
	User         string
	Port         int
	IdentityFile string
	Timeout      time.Duration
}

func (r *SSHRunner) Run(ctx context.Context, target state.Target, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if target.PublicAddress == "" {
		return "", fmt.Errorf("target %s has no public address", target.ID)
	}

	key, err := os.ReadFile(r.IdentityFile)
	if err != nil {
		return "", fmt.Errorf("reading identity file: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("parsing identity file: %w", err)
	}

	config := &ssh.ClientConfig{
		User: r.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.Timeout,
	}

	conn, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", target.PublicAddress, r.Port), config)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	session, err := conn.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	out, err := session.Output(cmd)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%w: exit status %d", ErrCommandFailed, exitErr.ExitStatus())
		}

		return "", err
	}

	return string(out), nil
}
