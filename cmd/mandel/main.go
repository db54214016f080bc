// Command mandel renders a Mandelbrot image on the local CPUs and writes it
// to a file.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/config"
	"github.com/marben/strip_mandel/display"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var output, format string

	root := &cobra.Command{
		Use:           "mandel",
		Short:         "Render the Mandelbrot set in parallel vertical strips",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := &display.File{Path: output}
			if format != "" {
				f, err := display.ParseFormat(format)
				if err != nil {
					return err
				}
				out.Format = f
			}
			return renderFile(cmd.Context(), cfg, out)
		},
	}
	cfg.AddFlags(root.Flags())
	root.Flags().StringVarP(&output, "output", "o", "mandel.png", "output file")
	root.Flags().StringVarP(&format, "format", "f", "", "png, jpeg, bmp or tiff (default: from the output extension)")

	root.AddCommand(&cobra.Command{
		Use:   "regions",
		Short: "List the landmarks accepted by --region",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range mandel.RegionNames() {
				r := mandel.Regions[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s re [%g, %g]  im [%g, %g]\n", name, r.Xmin, r.Xmax, r.Ymin, r.Ymax)
			}
		},
	})

	return root
}

func renderFile(ctx context.Context, cfg config.Config, out *display.File) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mandel.SetLogger(cfg.NewLogger(os.Stderr))

	p, err := cfg.Params()
	if err != nil {
		return err
	}
	sched, err := cfg.Scheduler()
	if err != nil {
		return err
	}

	log.Printf("rendering %dx%d on %d workers", p.Width, p.Height, sched.Workers())
	if err := sched.RenderTo(ctx, p, out); err != nil {
		return err
	}
	log.Printf("fully rendered file saved to %q", out.Path)
	return nil
}
