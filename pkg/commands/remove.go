package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/config"
	"tableflip.dev/finder/pkg/runner/remove"
)

func addRemove(topLevel *cobra.Command) {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a folder.",
		Long: `Delete a folder. A folder with children is only deleted together with
everything inside it when --recursive is set or delete_cascade is enabled in
the config.`,
		Example: `
finder rm <id>
finder rm <id> --recursive
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), func(c *config.Config) {
				if recursive {
					c.DeleteCascade = true
				}
			})
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := remove.Remove{
				Controller: s.ctl,
				ID:         args[0],
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Delete the folder and everything inside it.")

	topLevel.AddCommand(cmd)
}
