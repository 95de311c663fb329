package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server Settings `hcl:"server,block"`
}

// Settings contains server-level configuration
type Settings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	// DealerDelayMS is the pause between dealer card reveals, in
	// milliseconds. Zero sends the whole dealer hand at once.
	DealerDelayMS int `hcl:"dealer_delay_ms,optional"`
}

// Addr returns the listen address in host:port form
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// DealerDelay returns the dealer pacing as a duration
func (s Settings) DealerDelay() time.Duration {
	return time.Duration(s.DealerDelayMS) * time.Millisecond
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:       "localhost",
			Port:          8080,
			LogLevel:      "info",
			DealerDelayMS: 800,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	return &config, nil
}
