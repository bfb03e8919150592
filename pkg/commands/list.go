package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "ls [id]",
		Aliases: []string{"list"},
		Short:   "List the folders inside a folder, or at the top level.",
		Example: `
finder ls
finder ls 0b6f5a2e-5d0e-4a57-9d0c-7f1f4f2f9c11 --show-id
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			l := list.List{
				Controller: s.ctl,
				ShowID:     io.ShowID,
			}
			if len(args) > 0 {
				l.FolderID = args[0]
			}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
