package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	po := &options.PositionOptions{}

	cmd := &cobra.Command{
		Use:     "move <id>",
		Aliases: []string{"mv"},
		Short:   "Reposition a folder on its parent's canvas.",
		Long: `Reposition a folder on its parent's canvas. --to places it at an absolute
position, --by drags it by an offset from where it is. Positions are clamped so
they never go negative. When the folder lands on a sibling the sibling is
reported; the folder is not moved into it.`,
		Example: `
finder move <id> --to 120,40
finder move <id> --by 155,155
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := options.ParseOptional(po.To)
			if err != nil {
				return output.HandleError(err)
			}
			by, err := options.ParseOptional(po.By)
			if err != nil {
				return output.HandleError(err)
			}
			if (to == nil) == (by == nil) {
				return output.HandleError(errors.New("exactly one of --to or --by is required"))
			}

			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			m := move.Move{
				Controller: s.ctl,
				ID:         args[0],
				To:         to,
				By:         by,
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddMoveArgs(cmd, po)

	topLevel.AddCommand(cmd)
}
