package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/smapshot/pkg/style"
)

// styleCommand creates the style command.
func (c *CLI) styleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Inspect and check map styles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the built-in style as TOML",
		Long:  "Print the built-in style as TOML. Save it, edit it and pass it to render with --style.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return style.Encode(cmd.OutOrStdout(), style.Default())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a style file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := style.Load(args[0]); err != nil {
				return err
			}
			printSuccess("%s is valid", args[0])
			return nil
		},
	})
	return cmd
}
