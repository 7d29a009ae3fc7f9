package config

import (
	"github.com/paularlott/cli"
)

// Defaults for the backup pipeline.
const (
	DefaultInventory      = "inventory.csv"
	DefaultBackupDir      = "./backups"
	DefaultOutput         = "text"
	DefaultTimeoutSeconds = 10
	DefaultSNMPCommunity  = "public"
	DefaultHistoryLimit   = 10
)

// InventoryFlag selects the device inventory file.
func InventoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:         "inventory",
		Aliases:      []string{"i"},
		Usage:        "Path to inventory file",
		DefaultValue: DefaultInventory,
		EnvVars:      []string{"CONFSNAP_INVENTORY"},
	}
}

// BackupDirFlag selects the directory holding the snapshots.
func BackupDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:         "backup-dir",
		Aliases:      []string{"b"},
		Usage:        "Directory to store backups",
		DefaultValue: DefaultBackupDir,
		EnvVars:      []string{"CONFSNAP_BACKUP_DIR"},
	}
}

// OutputFlag selects the report format.
func OutputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:         "output",
		Aliases:      []string{"o"},
		Usage:        "Output format (text, json, yaml)",
		DefaultValue: DefaultOutput,
		EnvVars:      []string{"CONFSNAP_OUTPUT"},
	}
}

// TimeoutFlag sets the per-device connection timeout.
func TimeoutFlag() cli.Flag {
	return &cli.IntFlag{
		Name:         "timeout",
		Usage:        "Per-device connection timeout in seconds",
		DefaultValue: DefaultTimeoutSeconds,
		EnvVars:      []string{"CONFSNAP_TIMEOUT"},
	}
}
