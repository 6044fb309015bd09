package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"deadend/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
	colored  bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show deadend build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readVersionOptions(cmd)
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), opts)
		}
		renderVersionPretty(cmd.OutOrStdout(), opts)
		return nil
	},
}

func readVersionOptions(cmd *cobra.Command) (versionOptions, error) {
	var opts versionOptions
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(format)
	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return opts, fmt.Errorf("failed to get full flag: %w", err)
	}
	if opts.showHash, err = cmd.Flags().GetBool("hash"); err != nil {
		return opts, fmt.Errorf("failed to get hash flag: %w", err)
	}
	if opts.showDate, err = cmd.Flags().GetBool("date"); err != nil {
		return opts, fmt.Errorf("failed to get date flag: %w", err)
	}
	opts.showHash = opts.showHash || full
	opts.showDate = opts.showDate || full

	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.colored, err = resolveColor(colorMode); err != nil {
		return opts, err
	}
	return opts, nil
}

func renderVersionPretty(out io.Writer, opts versionOptions) {
	v := strings.TrimSpace(version.Version)
	if opts.colored {
		v = version.Colored()
	}
	fmt.Fprintf(out, "deadend %s\n", valueOrUnknown(v))
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(strings.TrimSpace(version.GitCommit)))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(strings.TrimSpace(version.BuildDate)))
	}
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "deadend",
		Version: valueOrUnknown(strings.TrimSpace(version.Version)),
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(strings.TrimSpace(version.GitCommit))
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(strings.TrimSpace(version.BuildDate))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
