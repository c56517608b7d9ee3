package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirkon/effectful/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "effectful",
	Short: "effectful infers effects Go entrypoints may trigger",
	Long: `effectful evaluates functions marked with //effect:entrypoint symbolically
and lists effects of //effect:declare'd functions they may reach, with
arguments rendered as glob patterns.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		config.DefaultFileName,
		"Path to the config file, defaults are used when the default file is missing",
	)
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(configPath)
	}

	return config.LoadOptional(configPath)
}
