package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/finder/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
	so     = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "finder",
		Short: base.Wrap80("A spatial folder browser on the command line."),
		Long: base.Wrap80("finder keeps a tree of virtual folders, each placed at a position on " +
			"its parent's canvas, plus a favorites sidebar. Browse it with 'finder ui' or script it " +
			"with the verbs below."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, output)
	options.AddStoreArgs(cmd, so)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addList(topLevel)
	addMkdir(topLevel)
	addRename(topLevel)
	addMove(topLevel)
	addRemove(topLevel)
	addFavorite(topLevel)
	addView(topLevel)
	addWipe(topLevel)
	addInfo(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
