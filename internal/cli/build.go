package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-pagination/internal/commands/build"
	"github.com/goliatone/go-pagination/internal/generator"
)

const defaultWatchDebounce = 300 * time.Millisecond

type buildFlags struct {
	content      string
	out          string
	path         string
	iteratee     string
	summaryLimit int
	dryRun       bool
	watch        bool
	debounce     time.Duration
}

func newBuildCmd(a *app) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render content and write one page per year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, a, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.content, "content", "", "content directory (overrides config)")
	f.StringVar(&flags.out, "out", "", "output directory (overrides config)")
	f.StringVar(&flags.path, "path", "", `year page name template, ":collection" is replaced by the collection name`)
	f.StringVar(&flags.iteratee, "iteratee", "", "iteratee applied to every post (identity, indexed, summary)")
	f.IntVar(&flags.summaryLimit, "summary-limit", 0, "posts per page flagged as summaries by the summary iteratee")
	f.BoolVar(&flags.dryRun, "dry-run", false, "render without writing artifacts")
	f.BoolVar(&flags.watch, "watch", false, "rebuild whenever the content directory changes")
	f.DurationVar(&flags.debounce, "debounce", defaultWatchDebounce, "quiet period before a watch rebuild")
	return cmd
}

func runBuild(cmd *cobra.Command, a *app, flags buildFlags) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, containerOpts, err := a.services(cfg)
	if err != nil {
		return err
	}

	handler := buildcmd.NewBuildSiteHandler(cfg, buildcmd.ContainerFactory(containerOpts...), logger)
	out := cmd.OutOrStdout()

	build := func(ctx context.Context) error {
		return handler.Execute(ctx, buildcmd.BuildSiteCommand{
			ContentDir:   flags.content,
			OutputDir:    flags.out,
			Path:         flags.path,
			Iteratee:     flags.iteratee,
			SummaryLimit: flags.summaryLimit,
			DryRun:       flags.dryRun,
			ResultCallback: func(env buildcmd.ResultEnvelope) {
				if env.Result != nil {
					printBuildResult(out, env.Result)
				}
			},
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := build(ctx); err != nil {
		if !flags.watch {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
	}
	if !flags.watch {
		return nil
	}

	dir := strings.TrimSpace(flags.content)
	if dir == "" {
		dir = cfg.Content.Dir
	}
	watcher, err := NewWatcher(dir, flags.debounce, func(ctx context.Context, changed []string) error {
		fmt.Fprintf(out, "change detected (%d paths), rebuilding\n", len(changed))
		if err := build(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
		}
		return nil
	}, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "watching %s\n", dir)
	return watcher.Run(ctx)
}

func printBuildResult(w io.Writer, result *generator.BuildResult) {
	mode := ""
	if result.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "build %s%s: %d files, %d pages rendered, %d artifacts written in %s\n",
		result.BuildID, mode, result.Files, len(result.Rendered), result.Written, result.Duration.Round(time.Millisecond))
	for _, chain := range result.Chains {
		outputs := make([]string, 0, len(chain.Pages))
		for _, page := range chain.Pages {
			outputs = append(outputs, page.Output)
		}
		fmt.Fprintf(w, "  %s -> %s\n", chain.Anchor, strings.Join(outputs, ", "))
		for _, name := range chain.Overwritten {
			fmt.Fprintf(w, "  warning: %s overwrote an existing document\n", name)
		}
	}
}
