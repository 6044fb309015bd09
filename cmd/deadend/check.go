package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deadend/internal/diag"
	"deadend/internal/diagfmt"
	"deadend/internal/driver"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory|-]",
	Short: "Find the invalid region of a file, every file in a directory, or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory checks (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directory checks (auto|on|off)")
	checkCmd.Flags().String("stdin-name", "-", "file name used to pick the oracle for stdin")
	addSelectionFlags(checkCmd)
	addRenderFlags(checkCmd)
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("include", nil, "glob patterns of files to check inside a directory")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip inside a directory")
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("elide", false, "print ... between non-adjacent lines")
	cmd.Flags().Int("width", 0, "truncate excerpt lines to this many columns (0=off)")
	cmd.Flags().String("marker", "", "prefix of lines inside the invalid region")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("show-ok", false, "also report valid documents")
}

// readSelection returns include/exclude patterns: flags over config over defaults.
func readSelection(cmd *cobra.Command, st *settings) (include, exclude []string, err error) {
	include, exclude = st.cfg.Source.Include, st.cfg.Source.Exclude
	if cmd.Flags().Changed("include") {
		if include, err = cmd.Flags().GetStringSlice("include"); err != nil {
			return nil, nil, fmt.Errorf("failed to get include flag: %w", err)
		}
	}
	if cmd.Flags().Changed("exclude") {
		if exclude, err = cmd.Flags().GetStringSlice("exclude"); err != nil {
			return nil, nil, fmt.Errorf("failed to get exclude flag: %w", err)
		}
	}
	if len(exclude) == 0 {
		exclude = driver.DefaultExclude
	}
	return include, exclude, nil
}

// renderOptions собирает флаги вывода поверх [display] из конфига.
type renderOptions struct {
	format string
	pretty diagfmt.PrettyOpts
	json   diagfmt.JSONOpts
}

func readRenderOptions(cmd *cobra.Command, st *settings) (renderOptions, error) {
	var ro renderOptions
	var err error
	if ro.format, err = cmd.Flags().GetString("format"); err != nil {
		return ro, fmt.Errorf("failed to get format flag: %w", err)
	}
	ro.format = strings.ToLower(ro.format)
	switch ro.format {
	case "pretty", "json", "short":
	default:
		return ro, fmt.Errorf("unknown format %q (must be pretty, json or short)", ro.format)
	}

	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return ro, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return ro, fmt.Errorf("unknown path mode %q", pathModeStr)
	}

	code := diagfmt.CodeOpts{
		Color:  st.color,
		Elide:  st.cfg.Display.Elide,
		Width:  st.cfg.Display.Width,
		Marker: st.cfg.Display.Marker,
	}
	if cmd.Flags().Changed("elide") {
		if code.Elide, err = cmd.Flags().GetBool("elide"); err != nil {
			return ro, fmt.Errorf("failed to get elide flag: %w", err)
		}
	}
	if cmd.Flags().Changed("width") {
		if code.Width, err = cmd.Flags().GetInt("width"); err != nil {
			return ro, fmt.Errorf("failed to get width flag: %w", err)
		}
	}
	if cmd.Flags().Changed("marker") {
		if code.Marker, err = cmd.Flags().GetString("marker"); err != nil {
			return ro, fmt.Errorf("failed to get marker flag: %w", err)
		}
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return ro, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showOK, err := cmd.Flags().GetBool("show-ok")
	if err != nil {
		return ro, fmt.Errorf("failed to get show-ok flag: %w", err)
	}

	ro.pretty = diagfmt.PrettyOpts{
		Code:      code,
		PathMode:  pathMode,
		ShowNotes: withNotes,
		ShowOK:    showOK && !st.quiet,
	}
	ro.json = diagfmt.JSONOpts{
		PathMode:     pathMode,
		IncludeNotes: withNotes,
		IncludeLines: true,
	}
	return ro, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ro, err := readRenderOptions(cmd, st)
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	var results []*driver.Result
	switch {
	case target == "-":
		res, err := checkStdin(cmd, st)
		if err != nil {
			return err
		}
		results = []*driver.Result{res}
	default:
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", target, err)
		}
		if info.IsDir() {
			results, err = checkDirectory(cmd, st, target)
		} else {
			var res *driver.Result
			res, err = driver.CheckFile(cmd.Context(), target, st.options)
			results = []*driver.Result{res}
		}
		if err != nil {
			return err
		}
	}

	if err := render(cmd.OutOrStdout(), results, ro); err != nil {
		return err
	}
	st.printTimings(cmd.ErrOrStderr())
	for _, r := range results {
		if !r.Valid() {
			return errInvalid
		}
	}
	return nil
}

func checkStdin(cmd *cobra.Command, st *settings) (*driver.Result, error) {
	name, err := cmd.Flags().GetString("stdin-name")
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin-name flag: %w", err)
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	o, err := oracle.ForDocument(name, content, st.options.Oracle)
	if err != nil {
		return nil, err
	}
	file := source.FromBytes(name, content, source.FileVirtual, st.options.Load)
	return driver.Check(cmd.Context(), file, oracle.NewCached(o), st.options)
}

func checkDirectory(cmd *cobra.Command, st *settings, root string) ([]*driver.Result, error) {
	include, exclude, err := readSelection(cmd, st)
	if err != nil {
		return nil, err
	}
	opts := driver.DirOptions{
		Options: st.options,
		Include: include,
		Exclude: exclude,
	}
	if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}
	if !st.quiet && shouldUseTUI(mode) {
		return runCheckDirWithUI(cmd.Context(), "checking "+root, root, opts)
	}
	return driver.CheckDir(cmd.Context(), root, opts)
}

func render(w io.Writer, results []*driver.Result, ro renderOptions) error {
	reports := make([]diagfmt.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.Report())
	}
	switch ro.format {
	case "json":
		return diagfmt.JSON(w, reports, ro.json)
	case "short":
		var all []diag.Diagnostic
		for _, r := range reports {
			all = append(all, r.Diagnostics...)
		}
		if out := diag.FormatShort(all, ro.pretty.ShowNotes); out != "" {
			_, err := fmt.Fprintln(w, out)
			return err
		}
		return nil
	default:
		return diagfmt.Pretty(w, reports, ro.pretty)
	}
}
