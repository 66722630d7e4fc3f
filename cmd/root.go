package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the base command. Without a subcommand it behaves like
// generate.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codebasetext [path]",
		Short: "codebasetext turns a project tree into a single text snapshot",
		Long: `codebasetext writes a structure diagram of a project followed by the contents of
every included file, honoring .gitignore and custom ignore patterns, for review
tools and language-model context.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}
	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
