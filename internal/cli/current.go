package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/marker"
)

func newCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Short:   "Print the version currently in the marker file",
		Example: `  release current`,
		GroupID: groupInspect,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			value, err := marker.Read(a.cfg.MarkerPath(), a.cfg.MarkerName)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}
}
