package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show wd version information",
		Long:  `Display version, build date, commit hash, and platform information for the wd binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := a.opts.Version

			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s\nPlatform: %s\nGo: %s", info.String(), info.Platform, info.GoVersion)
			return p.Print(text, info)
		},
	}
}
