// Package config holds the two configuration surfaces: the project
// file balancete.yaml and the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file written by init.
const FileName = "balancete.yaml"

// Config represents the top-level balancete.yaml configuration.
type Config struct {
	Company CompanyConfig `yaml:"company"`
	Paths   PathsConfig   `yaml:"paths"`
	Git     GitConfig     `yaml:"git"`
	AI      AIConfig      `yaml:"ai"`
}

// CompanyConfig identifies the company the balancetes belong to.
type CompanyConfig struct {
	Name string `yaml:"name"`
	CNPJ string `yaml:"cnpj,omitempty"`
}

// PathsConfig locates the project's data files. Relative paths are
// resolved against the project root.
type PathsConfig struct {
	Data      string `yaml:"data"`
	Workbook  string `yaml:"workbook"`
	ImportDir string `yaml:"import_dir"`
	Depara    string `yaml:"depara"`
	Logs      string `yaml:"logs"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// AIConfig tunes the fallback classifier.
type AIConfig struct {
	Model          string `yaml:"model"`
	BatchSize      int    `yaml:"batch_size"`
	Retries        int    `yaml:"retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads a balancete.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(companyName, cnpj string) *Config {
	return &Config{
		Company: CompanyConfig{
			Name: companyName,
			CNPJ: cnpj,
		},
		Paths: PathsConfig{
			Data:      "data",
			Workbook:  "statements.xlsx",
			ImportDir: "import",
			Depara:    "depara.csv",
			Logs:      "logs",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Balancete",
			AuthorEmail: "bot@cleared.dev",
		},
		AI: AIConfig{
			Model:          "gemini-2.5-flash",
			BatchSize:      20,
			Retries:        2,
			TimeoutSeconds: 30,
		},
	}
}

// Resolve joins path onto root unless it is already absolute.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
