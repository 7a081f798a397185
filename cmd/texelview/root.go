// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelview/root.go
// Summary: Command line for texelview.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelview/apps/texelview"
	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/internal/devshell"
	"github.com/framegrace/texelview/internal/logging"
)

var version = "dev"

var errNothingToView = errors.New("nothing to view: pass a command or pipe output on stdin")

type rootOptions struct {
	maxRows   int
	longPress time.Duration
	clipboard string
	logFile   string
	logLevel  string
	noWatch   bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "texelview [command [args...]]",
		Short: "Scroll and select through live terminal output",
		Long: `texelview shows the output of a command, or of a pipe on stdin, in a
scrollable view. Long-press or drag to select; the view holds still while
you select even as new output arrives.`,
		SilenceUsage: true,
		Version:      version,
		Args:         cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	// Everything after the command name belongs to the command.
	cmd.Flags().SetInterspersed(false)

	flags := cmd.Flags()
	flags.IntVar(&opts.maxRows, "max-rows", 0, "scrollback capacity in lines")
	flags.DurationVar(&opts.longPress, "long-press", 0, "hold time that confirms a selection")
	flags.StringVar(&opts.clipboard, "clipboard", "", "clipboard backend: auto, system, osc52 or memory")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default: user cache dir)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.noWatch, "no-watch", false, "do not reload texelview.json when it changes")
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Warn("config unreadable, using defaults", "err", err)
	}

	logFile := cfg.GetString("", "log_file", "")
	logLevel := cfg.GetString("", "log_level", "info")
	if cmd.Flags().Changed("log-file") {
		logFile = opts.logFile
	}
	if cmd.Flags().Changed("log-level") {
		logLevel = opts.logLevel
	}
	logger, closer, err := logging.Open(logFile, logLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	override := func(s texelview.Settings) texelview.Settings {
		return applyFlags(cmd, opts, s)
	}
	settings := override(texelview.SettingsFromConfig(cfg))

	src, err := pickSource(args, os.Stdin, term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		return err
	}
	logger.Info("starting", "args", args, "maxRows", settings.MaxRows, "clipboard", settings.Clipboard)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return devshell.Run(func([]string) (devshell.App, error) {
		v, err := texelview.New(settings, src, logger)
		if err != nil {
			return nil, err
		}
		v.SetSettingsOverride(override)
		if !opts.noWatch {
			if err := config.Watch(ctx, v.ConfigChanged); err != nil {
				logger.Warn("config watch disabled", "err", err)
			}
		}
		return v, nil
	}, args)
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(cmd *cobra.Command, opts *rootOptions, s texelview.Settings) texelview.Settings {
	flags := cmd.Flags()
	if flags.Changed("max-rows") && opts.maxRows > 0 {
		s.MaxRows = opts.maxRows
	}
	if flags.Changed("long-press") && opts.longPress > 0 {
		s.LongPress = opts.longPress
	}
	if flags.Changed("clipboard") {
		s.Clipboard = opts.clipboard
	}
	return s
}

// pickSource runs args under a pty, or reads stdin when it is a pipe.
func pickSource(args []string, stdin io.Reader, stdinIsTerminal bool) (texelview.Source, error) {
	if len(args) > 0 {
		return texelview.NewCommandSource(args), nil
	}
	if stdinIsTerminal {
		return nil, errNothingToView
	}
	return texelview.NewReaderSource(stdin), nil
}
