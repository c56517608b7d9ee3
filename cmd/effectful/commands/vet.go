package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/effectful"
)

var vetCmd = &cobra.Command{
	Use:   "vet [analyzer flags] [packages...]",
	Short: "Runs effectful as a go vet style analyzer",
	Long: `The vet command runs the analyzer in the standard checker driver: effects are
reported at entrypoints as diagnostics. Analyzer flags (-config, -max-depth,
-nested, -diagnostics) and package patterns follow the command name.`,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Args = append([]string{os.Args[0]}, args...)
		singlechecker.Main(effectful.Analyzer)
	},
}

func init() {
	AddCommand(vetCmd)
}
