package helpers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

const checkIPEndpoint = "https://checkip.amazonaws.com"

// CallerIP looks up the public address of the machine running the tool.
func CallerIP() (string, error) {
	resp, err := http.Get(checkIPEndpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("failed to look up caller address: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(body)), nil
}

// CallerCIDR is the caller's address as a single-host CIDR block.
func CallerCIDR() (string, error) {
	ip, err := CallerIP()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/32", ip), nil
}
