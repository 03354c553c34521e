// Package paths resolves where tokendesigner keeps its configuration and
// its snapshot data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user platform directories.
const appName = "tokendesigner"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else selects one.
const DefaultDataDirName = ".tokendesigner"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TOKENDESIGNER_CONFIG_DIR"
	EnvDataDir   = "TOKENDESIGNER_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory:
//
//	Linux:   $XDG_CONFIG_HOME/tokendesigner (fallback ~/.config/tokendesigner)
//	macOS:   ~/Library/Application Support/tokendesigner
//	Windows: %APPDATA%/tokendesigner
func DefaultConfigDir() (string, error) {
	return platformPath("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory:
//
//	Linux:   $XDG_DATA_HOME/tokendesigner (fallback ~/.local/share/tokendesigner)
//	macOS:   ~/Library/Application Support/tokendesigner
//	Windows: %APPDATA%/tokendesigner
func DefaultDataDir() (string, error) {
	return platformPath("XDG_DATA_HOME", ".local", "share")
}

// platformPath applies the XDG rules on Linux and os.UserConfigDir
// elsewhere.
func platformPath(xdgEnv string, homeFallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeFallback...), appName)...), nil
}

// firstAbs returns the first non-empty candidate made absolute.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			abs, err := filepath.Abs(c)
			return abs, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir picks the configuration directory:
// flag > TOKENDESIGNER_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory:
// flag > config.yaml data_dir > TOKENDESIGNER_DATA_DIR > $(CWD)/.tokendesigner.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
