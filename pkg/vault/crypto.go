package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"
)

// machineID returns a stable identifier for the current machine.
func machineID() string {
	var id string
	switch runtime.GOOS {
	case "linux":
		if data, err := os.ReadFile("/etc/machine-id"); err == nil {
			id = strings.TrimSpace(string(data))
		} else if data, err := os.ReadFile("/var/lib/dbus/machine-id"); err == nil {
			id = strings.TrimSpace(string(data))
		}
	}

	if id == "" {
		hostname, _ := os.Hostname()
		home, _ := os.UserHomeDir()
		id = hostname + ":" + home
	}
	return id
}

// filePassphrase unlocks the file keyring when no OS keyring is reachable.
func filePassphrase() string {
	hash := sha256.Sum256([]byte(machineID() + "pippin-v1-salt"))
	return hex.EncodeToString(hash[:])
}

// Mask returns a masked version of a secret string
func Mask(s string) string {
	if len(s) == 0 {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	if len(s) <= 10 {
		return s[:1] + "********" + s[len(s)-1:]
	}
	return s[:3] + "********" + s[len(s)-3:]
}
