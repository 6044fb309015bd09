package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"deadend/internal/version"
)

// errInvalid signals that an invalid document was found; main exits with 1
// without printing it.
var errInvalid = errors.New("invalid document")

var rootCmd = &cobra.Command{
	Use:   "deadend",
	Short: "Find the lines responsible for a missing or extra end",
	Long: `deadend locates the smallest region of a broken block-structured document
(a missing end, an extra end, an unclosed bracket) and prints it with the
surrounding context`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiling)
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTracing)
		return nil
	},
}

// cleanups выполняются в обратном порядке после любой команды,
// в том числе завершившейся ошибкой.
var cleanups []func()

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Info(false) + "\n")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to .deadend.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per document")
	rootCmd.PersistentFlags().String("oracle", "", "validity oracle (auto|keyword|delimiter|command)")
	rootCmd.PersistentFlags().StringSlice("oracle-cmd", nil, "command for the command oracle, e.g. ruby,-c")
	rootCmd.PersistentFlags().Duration("oracle-timeout", 0, "timeout for one command oracle call")
	rootCmd.PersistentFlags().Bool("nfc", false, "normalize sources to Unicode NFC")
	rootCmd.PersistentFlags().Bool("cache", false, "cache search results on disk")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/deadend)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "deadend: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
