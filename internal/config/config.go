// Package config loads the release configuration from defaults, the global
// and project config files and RELEASEKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RELEASEKIT_"

	// DirName is the config directory under the home and project roots.
	DirName = ".releasekit"

	// FileName is the config file inside DirName.
	FileName = "config.json"
)

// ErrInvalid wraps every load or validation failure so callers can map it
// to a single exit code.
var ErrInvalid = errors.New("invalid configuration")

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Configuration represents the release tool configuration
type Configuration struct {
	RepoRoot         string   `koanf:"repo_root" json:"repo_root" validate:"required"`
	MarkerFile       string   `koanf:"marker_file" json:"marker_file" validate:"required"`
	MarkerName       string   `koanf:"marker_name" json:"marker_name" validate:"required,identifier"`
	StagePaths       []string `koanf:"stage_paths" json:"stage_paths" validate:"dive,required"`
	WorkflowFile     string   `koanf:"workflow_file" json:"workflow_file"`
	Remote           string   `koanf:"remote" json:"remote" validate:"required"`
	ReleaseTool      string   `koanf:"release_tool" json:"release_tool" validate:"required"`
	GitHubOwner      string   `koanf:"github_owner" json:"github_owner" validate:"required_with=GitHubRepo"`
	GitHubRepo       string   `koanf:"github_repo" json:"github_repo" validate:"required_with=GitHubOwner"`
	GitHubAPIURL     string   `koanf:"github_api_url" json:"github_api_url" validate:"required,url"`
	AssetName        string   `koanf:"asset_name" json:"asset_name"`
	HTTPTimeout      int      `koanf:"http_timeout" json:"http_timeout" validate:"min=1,max=300"` // seconds
	EnforceMonotonic bool     `koanf:"enforce_monotonic" json:"enforce_monotonic"`
}

// GlobalPath returns ~/.releasekit/config.json, or "" when the home
// directory cannot be determined.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName, FileName)
}

// LocalPath returns the project config path, .releasekit/config.json.
func LocalPath() string {
	return filepath.Join(DirName, FileName)
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
//
// An explicit localConfigPath must exist; the default locations are optional.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("%w: setting default %s: %w", ErrInvalid, key, err)
		}
	}

	if globalPath := GlobalPath(); globalPath != "" {
		if err := loadFile(k, globalPath, false); err != nil {
			return nil, fmt.Errorf("%w: failed to load global config: %w", ErrInvalid, err)
		}
	}

	required := localConfigPath != ""
	if !required {
		localConfigPath = LocalPath()
	}
	if err := loadFile(k, localConfigPath, required); err != nil {
		return nil, fmt.Errorf("%w: failed to load local config: %w", ErrInvalid, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load environment: %w", ErrInvalid, err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(expandHomePath(cfg.RepoRoot))
	if err != nil {
		return nil, fmt.Errorf("%w: resolving repo_root: %w", ErrInvalid, err)
	}
	cfg.RepoRoot = root
	cfg.MarkerFile = expandHomePath(cfg.MarkerFile)

	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return err
	}
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks struct constraints.
func (c *Configuration) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("registering validator: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: config validation failed: %w", ErrInvalid, err)
	}
	return nil
}

// Resolve returns p resolved against RepoRoot.
func (c *Configuration) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RepoRoot, p)
}

// MarkerPath returns the marker file path resolved against RepoRoot.
func (c *Configuration) MarkerPath() string {
	return c.Resolve(c.MarkerFile)
}

// WorkflowPath returns the release CI workflow path, or "" when unset.
func (c *Configuration) WorkflowPath() string {
	return c.Resolve(c.WorkflowFile)
}

// envTransform converts environment variable names to config keys
// Example: RELEASEKIT_MARKER_FILE -> marker_file. List keys take a
// comma-separated value.
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "stage_paths" {
		var paths []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		return key, paths
	}
	return key, value
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
