package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"deadend/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory]",
	Short: "Re-check matching files in a directory every time they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("initial", false, "check every matching file once before watching")
	addSelectionFlags(watchCmd)
	addRenderFlags(watchCmd)
}

// watchSession держит состояние одного запуска watch.
type watchSession struct {
	root    string
	matcher driver.Matcher
	fsw     *fsnotify.Watcher
	st      *settings
	ro      renderOptions
	out     io.Writer
	errOut  io.Writer
	seen    map[string][32]byte // последний проверенный хеш содержимого по пути
}

func runWatch(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ro, err := readRenderOptions(cmd, st)
	if err != nil {
		return err
	}
	include, exclude, err := readSelection(cmd, st)
	if err != nil {
		return err
	}
	matcher, err := driver.NewMatcher(include, exclude)
	if err != nil {
		return err
	}
	initial, err := cmd.Flags().GetBool("initial")
	if err != nil {
		return fmt.Errorf("failed to get initial flag: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	ws := &watchSession{
		root:    root,
		matcher: matcher,
		fsw:     fsw,
		st:      st,
		ro:      ro,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		seen:    make(map[string][32]byte),
	}
	if err := ws.addTree(root); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if initial {
		files, err := driver.ListFiles(root, matcher)
		if err != nil {
			return err
		}
		for _, path := range files {
			if err := ws.check(ctx, path); err != nil {
				return err
			}
		}
	}
	if !st.quiet {
		fmt.Fprintf(ws.errOut, "watching %s (ctrl+c to stop)\n", root)
	}
	return ws.loop(ctx)
}

// addTree регистрирует dir и все его подкаталоги, кроме исключённых.
func (ws *watchSession) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := ws.rel(path); ok && rel != "." && ws.matcher.SkipDir(rel) {
			return filepath.SkipDir
		}
		if err := ws.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (ws *watchSession) rel(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (ws *watchSession) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if !ws.st.quiet {
				fmt.Fprintln(ws.errOut, "watch stopped")
			}
			return nil
		case event, ok := <-ws.fsw.Events:
			if !ok {
				return nil
			}
			if err := ws.handle(ctx, event); err != nil {
				return err
			}
		case err, ok := <-ws.fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(ws.errOut, "deadend: watch error: %v\n", err)
		}
	}
}

func (ws *watchSession) handle(ctx context.Context, event fsnotify.Event) error {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(ws.seen, event.Name)
		return nil
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		// файл успел исчезнуть между событием и stat
		return nil
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := ws.addTree(event.Name); err != nil {
				fmt.Fprintf(ws.errOut, "deadend: %v\n", err)
			}
		}
		return nil
	}
	rel, ok := ws.rel(event.Name)
	if !ok || !ws.matcher.Match(rel) {
		return nil
	}
	return ws.check(ctx, event.Name)
}

// check проверяет файл и печатает отчёт, если содержимое изменилось с прошлого раза.
// Ошибки загрузки печатаются в stderr и не прерывают наблюдение.
func (ws *watchSession) check(ctx context.Context, path string) error {
	res, err := driver.CheckFile(ctx, path, ws.st.options)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(ws.errOut, "deadend: %v\n", err)
		return nil
	}
	if res.File != nil {
		if prev, ok := ws.seen[path]; ok && prev == res.File.Hash {
			return nil
		}
		ws.seen[path] = res.File.Hash
	}
	if err := render(ws.out, []*driver.Result{res}, ws.ro); err != nil {
		return err
	}
	ws.st.printTimings(ws.errOut)
	return nil
}
