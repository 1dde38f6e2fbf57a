package simulator

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FileConfig represents the complete simulation configuration
type FileConfig struct {
	Simulation SimulationSettings `hcl:"simulation,block"`
	Tables     []TableSettings    `hcl:"table,block"`
}

// SimulationSettings contains simulation-level configuration
type SimulationSettings struct {
	Rounds         int    `hcl:"rounds,optional"`
	Opponent       string `hcl:"opponent,optional"`
	Seed           int64  `hcl:"seed,optional"`
	Workers        int    `hcl:"workers,optional"`
	TimeoutSeconds int    `hcl:"timeout_seconds,optional"`
	RecordDir      string `hcl:"record_dir,optional"`
	LogLevel       string `hcl:"log_level,optional"`
}

// TableSettings defines a table configuration
type TableSettings struct {
	Name     string   `hcl:"name,label"`
	WinScore int      `hcl:"win_score,optional"`
	Players  []string `hcl:"players,optional"`
}

// DefaultFileConfig returns default simulation configuration
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Simulation: SimulationSettings{
			Rounds:         1000,
			Opponent:       "policy",
			Seed:           1,
			Workers:        1,
			TimeoutSeconds: 30,
			LogLevel:       "info",
		},
		Tables: []TableSettings{
			{
				Name:     "main",
				WinScore: 8,
				Players:  []string{"OurBot", "Opp1", "Opp2", "Opp3"},
			},
		},
	}
}

// LoadFileConfig loads simulation configuration from an HCL file
func LoadFileConfig(filename string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultFileConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Simulation.Rounds == 0 {
		config.Simulation.Rounds = 1000
	}
	if config.Simulation.Opponent == "" {
		config.Simulation.Opponent = "policy"
	}
	if config.Simulation.Workers == 0 {
		config.Simulation.Workers = 1
	}
	if config.Simulation.TimeoutSeconds == 0 {
		config.Simulation.TimeoutSeconds = 30
	}
	if config.Simulation.LogLevel == "" {
		config.Simulation.LogLevel = "info"
	}

	// Apply defaults to tables
	for i := range config.Tables {
		if config.Tables[i].WinScore == 0 {
			config.Tables[i].WinScore = 8
		}
	}

	return &config, nil
}

// Validate validates the simulation configuration
func (c *FileConfig) Validate() error {
	if c.Simulation.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Simulation.Rounds)
	}
	if c.Simulation.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Simulation.Workers)
	}
	if c.Simulation.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Simulation.TimeoutSeconds)
	}

	validOpponents := map[string]bool{
		"policy": true,
		"rand":   true,
		"mixed":  true,
	}
	if !validOpponents[c.Simulation.Opponent] {
		return fmt.Errorf("invalid opponent type %q", c.Simulation.Opponent)
	}

	for _, table := range c.Tables {
		if table.WinScore <= 0 {
			return fmt.Errorf("table %s: win score must be positive", table.Name)
		}
		if len(table.Players) != 0 && len(table.Players) != 4 {
			return fmt.Errorf("table %s: need exactly 4 players, got %d", table.Name, len(table.Players))
		}
	}

	return nil
}
