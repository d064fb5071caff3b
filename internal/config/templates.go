package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Strategist Configuration

[engine]
# Number of evenly spaced samples per payoff curve
samples = 50
# Base price domain as a fraction of spot on each side (0.30 = spot ±30%)
domain_span = 0.30
# Extra domain padding as a fraction of the strike range
strike_margin = 0.10
# Spot fraction at which touch chance falls to zero
chance_window = 0.50
# Default strike spacing when resolving templates
strike_step = 5.0
# Shares per option contract
multiplier = 100

[chart]
# Payoff chart size in terminal cells
width = 72
height = 20

[catalog]
# Extra strategy template files (relative paths resolve against this directory)
template_files = ["strategies.yaml"]

[server]
# Listen address for 'strategist serve'
addr = ":8087"
# Allowed CORS origins for dashboard hosts
cors_origins = ["http://localhost:3000"]
read_timeout = "10s"
write_timeout = "10s"
request_timeout = "30s"
shutdown_timeout = "10s"

[storage]
# SQLite database for saved strategies and snapshots
# path = "/home/you/.config/strategist/strategist.db"

[log]
# Log level: debug, info, warn, error
level = "info"
# Mirror logs to the terminal
console = false
# Write rotating log files
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
`

const strategiesTemplate = `# Options Strategist user templates
#
# Templates listed here are added to the built-in catalog; reusing a
# built-in id replaces it. Offsets count strike steps from the
# at-the-money strike.
#
# strategies:
#   - id: wide-condor
#     name: Wide Iron Condor
#     bias: NEUTRAL
#     legs:
#       - {side: LONG,  instrument: PUT,  offset_steps: -6}
#       - {side: SHORT, instrument: PUT,  offset_steps: -3}
#       - {side: SHORT, instrument: CALL, offset_steps: 3}
#       - {side: LONG,  instrument: CALL, offset_steps: 6}
strategies: []
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	// Ship the strategies file alongside so the catalog section works out
	// of the box.
	strategiesPath := filepath.Join(configDir, "strategies.yaml")
	if _, err := os.Stat(strategiesPath); os.IsNotExist(err) {
		if err := os.WriteFile(strategiesPath, []byte(strategiesTemplate), 0644); err != nil {
			return fmt.Errorf("writing strategies template: %w", err)
		}
	}

	return nil
}
