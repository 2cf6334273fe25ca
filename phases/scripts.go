package phases

import "fmt"

const bootstrapScript = `#!/bin/bash -xe

## prepare the deployment state directory
mkdir -p /var/lib/cockpit-deploy/state

## base tooling used by later phases
dnf install -y jq tar firewalld

## the firewall must be running before the console port is opened
systemctl enable --now firewalld
`

const updatesScript = `#!/bin/bash -xe

## refresh metadata and apply pending updates
dnf clean expire-cache
dnf -y update
`

const cockpitScript = `#!/bin/bash -xe

## install the web console and the base plugins
dnf install -y cockpit cockpit-system cockpit-networkmanager cockpit-storaged

## serve on the default port and survive reboots
systemctl enable --now cockpit.socket

## open the console port on the local firewall
firewall-cmd --permanent --add-service=cockpit
firewall-cmd --reload
`

const extensionsScript = `#!/bin/bash -xe

## container management plugin
dnf install -y cockpit-podman

## metrics backend for the console graphs
dnf install -y pcp
systemctl enable --now pmcd pmlogger
`

const finalizeScript = `#!/bin/bash -xe

## drop package caches
dnf clean all

## leave a note for operators logging in over ssh
mkdir -p /etc/motd.d
cat > /etc/motd.d/cockpit <<'MOTD'
This host is managed by cockpit-deploy.
Web console: https://<this-host>:9090
MOTD
`

var scripts = map[Name]string{
	Bootstrap:  bootstrapScript,
	Updates:    updatesScript,
	Cockpit:    cockpitScript,
	Extensions: extensionsScript,
	Finalize:   finalizeScript,
}

// completionFooter renders the script epilogue that writes the phase
// completion record. The shell runs with -e, so the record is only
// written after every previous command succeeded.
func completionFooter(name Name) string {
	return fmt.Sprintf(`
## record phase completion
mkdir -p %s
cat > %s <<RECORD
{"phase": "%s", "schema": %d, "completed_at": "$(date -u +%%Y-%%m-%%dT%%H:%%M:%%SZ)"}
RECORD
`, SentinelDir, SentinelPath(name), name, SentinelSchema)
}

// Script returns the full shell payload for a phase.
func Script(name Name) (string, error) {
	body, ok := scripts[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPhase, name)
	}

	return body + completionFooter(name), nil
}
