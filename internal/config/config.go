// Package config loads the defaults SPEC_FULL.md §4.M describes: an
// optional .env file (github.com/joho/godotenv, as cc-backend imports
// directly) and a YAML file of the same defaults (gopkg.in/yaml.v3, as
// hyperpb-go imports directly). It only loads these values; no command in
// this module calls it.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults holds the values a .env file or a YAML file may supply.
type Defaults struct {
	SharedMemoryPOSIX bool   `yaml:"sharedMemoryPOSIX"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	MetricsAddr       string `yaml:"metricsAddr"`
}

// LoadEnv loads a .env file if one is present at path, setting
// CLUON_SHAREDMEMORY_POSIX and friends into the process environment. A
// missing file is not an error; godotenv.Load itself distinguishes
// "file absent" from a malformed file.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %q: %w", path, err)
	}
	return nil
}

// LoadYAML reads the YAML document at path into Defaults.
func LoadYAML(path string) (Defaults, error) {
	var d Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return d, nil
}

// FromEnv reads the defaults that LoadEnv may have populated into the
// process environment, for callers that only care about the .env path.
func FromEnv() Defaults {
	return Defaults{
		SharedMemoryPOSIX: os.Getenv("CLUON_SHAREDMEMORY_POSIX") == "1",
		Host:              os.Getenv("CLUON_HOST"),
		Port:              atoiOrZero(os.Getenv("CLUON_PORT")),
		MetricsAddr:       os.Getenv("CLUON_METRICS_ADDR"),
	}
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
