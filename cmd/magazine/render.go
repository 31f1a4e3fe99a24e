package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tkilaker/magazine/internal/render"
)

var flagOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run the widget once and write the page",
	Long: `Load the cache, fetch if needed and write the rendered page.

The page goes to stdout unless --out names a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var region *render.Region
		if a.cfg.RegionID != "" {
			region = render.NewRegion(a.cfg.RegionID)
		}
		if _, err := a.widget.Run(ctx, region); err != nil {
			return fmt.Errorf("rendering widget: %w", err)
		}

		var out io.Writer = cmd.OutOrStdout()
		if flagOut != "" {
			f, err := os.Create(flagOut)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return render.Page(a.cfg.FeedTitle, region).Render(ctx, out)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&flagOut, "out", "o", "", "write the page to this file instead of stdout")
}
