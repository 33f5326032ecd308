// Package commands holds the cobra subcommands of the terminal runtime. The
// dataset loads in the root command's pre-run, so every command receives the
// explorer through a provider instead of a direct reference.
package commands

import "github.com/de-tools/covid-atlas/pkg/services/dashboard"

// ExplorerProvider yields the dashboard explorer once the root command has
// loaded the dataset.
type ExplorerProvider func() dashboard.Explorer
