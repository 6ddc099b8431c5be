package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-pagination/internal/commands/build"
	"github.com/goliatone/go-pagination/internal/generator"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		content      string
		path         string
		iteratee     string
		summaryLimit int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Paginate content in memory and print each year chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, containerOpts, err := a.services(cfg)
			if err != nil {
				return err
			}

			var chains []generator.ChainSummary
			handler := buildcmd.NewInspectSiteHandler(cfg, buildcmd.ContainerFactory(containerOpts...), logger)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			err = handler.Execute(ctx, buildcmd.InspectSiteCommand{
				ContentDir:     content,
				Path:           path,
				Iteratee:       iteratee,
				SummaryLimit:   summaryLimit,
				ResultCallback: func(env buildcmd.InspectEnvelope) { chains = env.Chains },
			})
			if err != nil {
				return err
			}
			return printChains(cmd.OutOrStdout(), chains)
		},
	}

	f := cmd.Flags()
	f.StringVar(&content, "content", "", "content directory (overrides config)")
	f.StringVar(&path, "path", "", `year page name template, ":collection" is replaced by the collection name`)
	f.StringVar(&iteratee, "iteratee", "", "iteratee applied to every post")
	f.IntVar(&summaryLimit, "summary-limit", 0, "posts per page flagged as summaries")
	return cmd
}

func printChains(w io.Writer, chains []generator.ChainSummary) error {
	if len(chains) == 0 {
		_, err := fmt.Fprintln(w, "no paginated documents found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ANCHOR\tYEAR\tPAGE\tPOSTS\tPREV\tNEXT")
	for _, chain := range chains {
		for _, page := range chain.Pages {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\n",
				chain.Anchor, page.Year, page.Name, page.Posts, dash(page.Prev), dash(page.Next))
		}
	}
	return tw.Flush()
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
