package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/casc/project"
)

var version = "0.1.0"

func main() {
	var verbose int
	var logFile string

	rootCmd := &cobra.Command{
		Use:     "casc",
		Short:   "Parser and language server for cascade policy sources",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd, verbose, logFile)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging prefers the command line over the log section of the
// project file found from the working directory.
func configureLogging(cmd *cobra.Command, verbose int, logFile string) {
	verbosity := 0
	var path *string

	if p, err := project.Discover("."); err == nil {
		verbosity = p.Log.Verbosity
		if p.Log.File != "" {
			path = &p.Log.File
		}
	}
	if cmd.Flags().Changed("verbose") {
		verbosity = verbose
	}
	if logFile != "" {
		path = &logFile
	}
	commonlog.Configure(verbosity, path)
}

// readSource reads a named file, or standard input for "-" and "".
func readSource(name string) (string, error) {
	var data []byte
	var err error
	if name == "" || name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
