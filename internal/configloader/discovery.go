package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// appName names the per-user and system configuration directories.
const appName = "sentinel"

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/xdg/sentinel/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/sentinel/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.sentinel.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// projectConfigFiles are the project config names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".sentinel.yml",
	".sentinel.yaml",
	"sentinel.yml",
	"sentinel.yaml",
}

//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations:
//   - system config in the XDG config dirs, then /etc/sentinel
//   - user config in $XDG_CONFIG_HOME/sentinel (or userDir when set)
//   - project config by searching upward from workDir
//
// Missing files are represented as empty strings.
func DiscoverPaths(ctx context.Context, workDir, userDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	if userDir == "" {
		userDir = filepath.Join(xdg.ConfigHome, appName)
	}

	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findConfigInDir(userDir),
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project

	return paths, nil
}

func findSystemConfig() string {
	dirs := make([]string, 0, len(xdg.ConfigDirs)+1)
	for _, dir := range xdg.ConfigDirs {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	dirs = append(dirs, filepath.Join("/etc", appName))

	for _, dir := range dirs {
		if path := findConfigInDir(dir); path != "" {
			return path
		}
	}
	return ""
}

func findConfigInDir(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops at a VCS root, the home directory or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		for _, name := range projectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		if isVCSRoot(currentDir) || (homeDir != "" && currentDir == homeDir) {
			return "", nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
