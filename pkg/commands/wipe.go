package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/commands/options"
	"tableflip.dev/finder/pkg/runner/wipe"
)

func addWipe(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every folder and favorite.",
		Long: `Delete every folder and favorite. Asks for confirmation on a terminal;
pass --yes when running without one.`,
		Example: `
finder wipe
finder wipe --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			w := wipe.Wipe{
				Controller: s.ctl,
				Confirmed:  co.Yes,
			}
			if options.Interactive() {
				w.Confirm = options.Confirm
			}
			return output.HandleError(w.Do(cmd.Context()))
		},
	}

	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}
