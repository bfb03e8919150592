package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/view"
)

func addView(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "view [id]",
		Short: "Print the view model of a folder as json or yaml.",
		Example: `
finder view
finder view <id> -o yaml
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			v := view.View{
				Controller: s.ctl,
				Output:     fo.Format,
				Out:        cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				v.FolderID = args[0]
			}
			return output.HandleError(v.Do(cmd.Context()))
		},
	}

	options.AddFormatArg(cmd, fo)

	topLevel.AddCommand(cmd)
}
