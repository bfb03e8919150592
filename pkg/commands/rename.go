package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/runner/rename"
)

func addRename(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rename <id> [name]",
		Short: "Rename a folder.",
		Example: `
finder rename <id> Archive
`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := rename.Rename{
				Controller: s.ctl,
				ID:         args[0],
				Name:       strings.Join(args[1:], " "),
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
