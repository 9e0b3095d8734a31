package config

import (
	"os"
	"path/filepath"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// DataDir returns ~/.pippin, creating it when needed.
func DataDir() string {
	home, _ := os.UserHomeDir()
	path := filepath.Join(home, ".pippin")
	_ = os.MkdirAll(path, 0755)
	return path
}

// KeyringDir holds the encrypted file keyring used when no OS keyring is available.
func KeyringDir() string {
	return filepath.Join(DataDir(), "keyring")
}
