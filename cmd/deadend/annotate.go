package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"deadend/internal/diagfmt"
	"deadend/internal/driver"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [flags]",
	Short: "Extend a syntax error message read from stdin",
	Long: `annotate reads a compiler or interpreter error message from stdin, finds the
file it names and prints the message extended with the invalid region
(auto mode) or with a hint to run deadend check (fyi mode)`,
	Args: cobra.NoArgs,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().String("mode", "auto", "annotation mode (auto|fyi)")
	annotateCmd.Flags().String("message", "", "use this message instead of reading stdin")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to get mode flag: %w", err)
	}
	mode, err := driver.ParseMode(modeStr)
	if err != nil {
		return err
	}
	message, err := cmd.Flags().GetString("message")
	if err != nil {
		return fmt.Errorf("failed to get message flag: %w", err)
	}
	if !cmd.Flags().Changed("message") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		message = string(data)
	}

	var notice io.Writer
	if !st.quiet {
		notice = cmd.ErrOrStderr()
	}
	out, err := driver.AnnotateMessage(cmd.Context(), message, driver.AnnotateOptions{
		Mode:  mode,
		Check: st.options,
		Render: diagfmt.PrettyOpts{
			Code: diagfmt.CodeOpts{
				Color:  st.color,
				Elide:  st.cfg.Display.Elide,
				Width:  st.cfg.Display.Width,
				Marker: st.cfg.Display.Marker,
			},
		},
		Notice: notice,
	})
	// сообщение печатается даже при ошибке анализа
	if _, werr := io.WriteString(cmd.OutOrStdout(), out); werr != nil {
		return werr
	}
	st.printTimings(cmd.ErrOrStderr())
	return err
}
