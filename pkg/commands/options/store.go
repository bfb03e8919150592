package options

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
)

// StoreOptions override where and how folders are stored. Empty values
// leave the config file and FINDER_* settings in charge.
type StoreOptions struct {
	Backend   string
	Path      string
	Ephemeral bool
	LogLevel  string
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		base.Wrap80("Storage engine, one of 'diskv', 'sqlite' or 'memory'."))
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		base.Wrap80("Directory (diskv) or database file (sqlite) holding the folders."))
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		base.Wrap80("Keep folders in memory for this run only."))
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level, for example 'debug' or 'warn'.")
}
