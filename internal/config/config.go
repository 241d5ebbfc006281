// Package config loads hookgate configuration from YAML.
//
// The exclusion patterns and the package routing table are ordered data so
// each rule can be tested on its own and extended without touching control
// flow.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default repository-level configuration file.
const ConfigFileName = ".hookgate.yaml"

// PackageRoute maps a repo-relative path prefix to the package directory
// whose test runner owns files under that prefix. First match wins.
type PackageRoute struct {
	Prefix string `yaml:"prefix"`
	Dir    string `yaml:"dir"`
}

// RunnerConfig describes how the test runner is invoked per package.
type RunnerConfig struct {
	// Command is the base argv, e.g. [pnpm, vitest].
	Command []string `yaml:"command"`
	// RelatedArgs selects the fast "related tests only" mode; the staged
	// file paths are appended after it.
	RelatedArgs []string `yaml:"related_args"`
	// RunArgs are the trailing arguments shared by both modes.
	RunArgs []string `yaml:"run_args"`
	// CoverageFile is the artifact path relative to the package directory.
	CoverageFile string `yaml:"coverage_file"`
}

// CheckCommand is a named command run by the pre-commit and post-merge
// hooks.
type CheckCommand struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
}

// HooksConfig tunes the individual agent-host hooks.
type HooksConfig struct {
	// CommitTypes are the accepted conventional-commit types.
	CommitTypes []string `yaml:"commit_types"`
	// NamingExceptions are regexes for file basenames (without extension)
	// exempt from the kebab-case rule.
	NamingExceptions []string `yaml:"naming_exceptions"`
	// NamingExemptDirs are directory names whose contents are exempt from
	// the kebab-case rule.
	NamingExemptDirs []string `yaml:"naming_exempt_dirs"`
	// FormatterCommand is the per-file formatter invocation; the file path
	// is appended.
	FormatterCommand []string `yaml:"formatter_command"`
	// FormatterExtensions limits which files the formatter hook touches.
	FormatterExtensions []string `yaml:"formatter_extensions"`
	// PreCommitChecks run before a commit is allowed; any failure blocks.
	PreCommitChecks []CheckCommand `yaml:"pre_commit_checks"`
	// PostMergeChecks run after a successful merge; failures only warn.
	PostMergeChecks []CheckCommand `yaml:"post_merge_checks"`
	// CheckTimeoutSeconds bounds each check command.
	CheckTimeoutSeconds int `yaml:"check_timeout_seconds"`
	// InstallCommand installs dependencies in a fresh worktree.
	InstallCommand []string `yaml:"install_command"`
	// NotifyCommand is the desktop notification binary.
	NotifyCommand string `yaml:"notify_command"`
	// WorktreeDir is where managed worktrees are created, relative to the
	// repository root.
	WorktreeDir string `yaml:"worktree_dir"`
}

// Config is the full hookgate configuration.
type Config struct {
	// Threshold is the minimum line and branch coverage percentage.
	Threshold float64 `yaml:"threshold"`
	// MaxRetries bounds the full-suite fallback attempts per package.
	MaxRetries int `yaml:"max_retries"`
	// TestTimeoutSeconds bounds each test-runner invocation.
	TestTimeoutSeconds int `yaml:"test_timeout_seconds"`
	// Extensions are the source file extensions the gate considers.
	Extensions []string `yaml:"extensions"`
	// Exclude are ordered regexes; a path matching any of them carries no
	// coverage obligation.
	Exclude []string `yaml:"exclude"`
	// Packages is the ordered routing table from path prefix to package.
	Packages []PackageRoute `yaml:"packages"`

	Runner RunnerConfig `yaml:"runner"`
	Hooks  HooksConfig  `yaml:"hooks"`

	// DebugLog is an optional debug log file path.
	DebugLog string `yaml:"debug_log"`
}

// DefaultConfig returns the built-in configuration. The exclusion list and
// routing table reproduce the monorepo layout this tooling grew up in; a
// repository overrides them in .hookgate.yaml.
func DefaultConfig() *Config {
	return &Config{
		Threshold:          80,
		MaxRetries:         5,
		TestTimeoutSeconds: 120,
		Extensions:         []string{".ts", ".tsx"},
		Exclude: []string{
			`\.config\.ts$`,
			`\.setup\.ts$`,
			`\.d\.ts$`,
			`\.test\.tsx?$`,
			`\.spec\.tsx?$`,
			`prisma/generated/`,
			`/generated/`,
			`^scripts/`,
			`\.next/`,
			`node_modules/`,
			`dist/`,
			`packages/database/src/index\.ts$`,
			`prisma/seed\.ts$`,
			`settings-schema\.ts$`,
		},
		Packages: []PackageRoute{
			{Prefix: "apps/web/", Dir: "apps/web"},
			{Prefix: "apps/orchestrator/", Dir: "apps/orchestrator"},
			{Prefix: "packages/ui/", Dir: "packages/ui"},
			{Prefix: "packages/logger/", Dir: "packages/logger"},
			{Prefix: "packages/database/", Dir: "packages/database"},
			{Prefix: "packages/plugin-contract/", Dir: "packages/plugin-contract"},
			{Prefix: "packages/plugins/context/", Dir: "packages/plugins/context"},
			{Prefix: "packages/plugins/discord/", Dir: "packages/plugins/discord"},
			{Prefix: "packages/plugins/web/", Dir: "packages/plugins/web"},
			{Prefix: "packages/plugins/delegation/", Dir: "packages/plugins/delegation"},
			{Prefix: "packages/plugins/activity/", Dir: "packages/plugins/activity"},
			{Prefix: "packages/plugins/metrics/", Dir: "packages/plugins/metrics"},
			{Prefix: "packages/plugins/time/", Dir: "packages/plugins/time"},
		},
		Runner: RunnerConfig{
			Command:      []string{"pnpm", "vitest"},
			RelatedArgs:  []string{"related"},
			RunArgs:      []string{"--run", "--coverage", "--coverage.reporter=json"},
			CoverageFile: filepath.Join("coverage", "coverage-final.json"),
		},
		Hooks: HooksConfig{
			CommitTypes: []string{
				"feat", "fix", "chore", "refactor", "docs",
				"test", "style", "perf", "ci", "build", "revert",
			},
			NamingExceptions: []string{
				`^__.*$`,
				`^\..*$`,
				`^README$`,
				`^LICENSE$`,
				`^CHANGELOG$`,
				`^CONTRIBUTING$`,
				`^[A-Z_]+$`,
			},
			NamingExemptDirs:    []string{"AI_RESEARCH"},
			FormatterCommand:    []string{"npx", "biome", "check", "--write"},
			FormatterExtensions: []string{".js", ".jsx", ".ts", ".tsx", ".json", ".css"},
			PreCommitChecks: []CheckCommand{
				{Name: "typecheck", Command: []string{"pnpm", "typecheck"}},
				{Name: "lint", Command: []string{"pnpm", "lint"}},
				{Name: "build", Command: []string{"pnpm", "build"}},
				{Name: "coverage-gate", Command: []string{"pnpm", "test:coverage-gate"}},
			},
			PostMergeChecks: []CheckCommand{
				{Name: "typecheck", Command: []string{"pnpm", "typecheck"}},
				{Name: "lint", Command: []string{"pnpm", "lint"}},
				{Name: "build", Command: []string{"pnpm", "build"}},
			},
			CheckTimeoutSeconds: 120,
			InstallCommand:      []string{"pnpm", "install"},
			NotifyCommand:       "notify-send",
			WorktreeDir:         filepath.Join(".hookgate", "worktrees"),
		},
	}
}

// LoadConfig loads the configuration, layering an optional YAML file over
// the defaults. With an empty path it looks for ConfigFileName in
// projectDir and silently falls back to defaults when absent; an explicit
// path that cannot be read is an error.
func LoadConfig(path, projectDir string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, ConfigFileName)
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold %v outside [0,100]", c.Threshold)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if len(c.Runner.Command) == 0 {
		return errors.New("runner.command must not be empty")
	}
	for _, route := range c.Packages {
		if route.Prefix == "" || route.Dir == "" {
			return fmt.Errorf("package route %+v missing prefix or dir", route)
		}
	}
	return nil
}

// TestTimeout returns the per-invocation test runner timeout.
func (c *Config) TestTimeout() time.Duration {
	return time.Duration(c.TestTimeoutSeconds) * time.Second
}

// CheckTimeout returns the per-check hook command timeout.
func (c *Config) CheckTimeout() time.Duration {
	return time.Duration(c.Hooks.CheckTimeoutSeconds) * time.Second
}

// RelatedArgv builds the fast-path runner invocation for the given
// package-relative files.
func (c *Config) RelatedArgv(files []string) []string {
	argv := append([]string{}, c.Runner.Command...)
	argv = append(argv, c.Runner.RelatedArgs...)
	argv = append(argv, files...)
	return append(argv, c.Runner.RunArgs...)
}

// FullArgv builds the full-suite runner invocation.
func (c *Config) FullArgv() []string {
	argv := append([]string{}, c.Runner.Command...)
	return append(argv, c.Runner.RunArgs...)
}
