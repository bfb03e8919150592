package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/favorite"
)

func addFavorite(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorite", "favorites"},
		Short:   "Manage the favorites sidebar.",
		Example: `
finder fav add <id>
finder fav ls
finder fav rm <id>
echo '{"id":"<id>","name":"Docs"}' | finder fav drop
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addFavoriteAction(cmd, favorite.Add, "add <id>", "Add a folder to the favorites.")
	addFavoriteAction(cmd, favorite.Remove, "rm <id>", "Remove a folder from the favorites.")
	addFavoriteList(cmd)
	addFavoriteDrop(cmd)

	topLevel.AddCommand(cmd)
}

func addFavoriteAction(parent *cobra.Command, action favorite.Action, use, short string) {
	cmd := &cobra.Command{
		Use:               use,
		Short:             short,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			f := favorite.Favorite{
				Controller: s.ctl,
				Action:     action,
				ID:         args[0],
			}
			return output.HandleError(f.Do(cmd.Context()))
		},
	}
	parent.AddCommand(cmd)
}

func addFavoriteList(parent *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the favorites in order.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			f := favorite.Favorite{
				Controller: s.ctl,
				Action:     favorite.List,
				ShowID:     ids.ShowID,
			}
			return output.HandleError(f.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ids)
	parent.AddCommand(cmd)
}

func addFavoriteDrop(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "drop [payload|-]",
		Short: "Add the folder described by a JSON folder record.",
		Long: `Add the folder described by a JSON folder record, as dropping a dragged
folder onto the sidebar does. The record is read from stdin when no payload
is given or it is '-'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 0 || args[0] == "-" {
				b, err := io.ReadAll(io.LimitReader(os.Stdin, 1<<20))
				if err != nil {
					return output.HandleError(err)
				}
				payload = b
			} else {
				payload = []byte(args[0])
			}

			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			f := favorite.Favorite{
				Controller: s.ctl,
				Action:     favorite.Drop,
				Payload:    payload,
			}
			return output.HandleError(f.Do(cmd.Context()))
		},
	}
	parent.AddCommand(cmd)
}
