package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/mkdir"
)

func addMkdir(topLevel *cobra.Command) {
	po := &options.PositionOptions{}
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir [name]",
		Short: "Create a folder.",
		Long:  "Create a folder. Without a name the folder is called \"untitled folder\".",
		Example: `
finder mkdir Projects
finder mkdir Drafts --parent <id> --at 120,40
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := options.ParsePosition(po.At)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			m := mkdir.Mkdir{
				Controller: s.ctl,
				Parent:     parent,
				Name:       strings.Join(args, " "),
				At:         at,
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Folder to create the new folder in. Defaults to the top level.")
	_ = cmd.RegisterFlagCompletionFunc("parent", folderCompletions)
	options.AddAtArg(cmd, po)

	topLevel.AddCommand(cmd)
}
