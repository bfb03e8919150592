package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/finder/pkg/runner/tea"
	"tableflip.dev/finder/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
finder ui
finder ui --ephemeral
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			w, _ := s.backend.(store.Watcher)
			return teaui.Run(cmd.Context(), s.ctl, w)
		},
	}

	topLevel.AddCommand(cmd)
}
