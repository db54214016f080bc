// main.go is a CLI client for the Mandelbrot server.
// It connects to the server, waits for the fully rendered image and saves it to a file.
// By default the image is fetched from the server's irpc tcp listener; --url
// switches to a websocket endpoint (/irpc for irpc, /ws for the JSON handshake).

package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marben/strip_mandel/display"
	"github.com/marben/strip_mandel/transport"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type clientFlags struct {
	addr    string
	url     string
	output  string
	format  string
	timeout time.Duration
}

func run() error {
	cf := clientFlags{
		addr:    "localhost:8081",
		output:  "mandel.png",
		timeout: 10 * time.Minute,
	}

	cmd := &cobra.Command{
		Use:           "cliclient",
		Short:         "Fetch the rendered Mandelbrot image from a server and save it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fetch(cmd.Context(), cf)
		},
	}
	cmd.Flags().StringVarP(&cf.addr, "addr", "a", cf.addr, "irpc tcp address of the server")
	cmd.Flags().StringVarP(&cf.url, "url", "u", "", "websocket endpoint of the server, e.g. ws://localhost:8080/irpc")
	cmd.Flags().StringVarP(&cf.output, "output", "o", cf.output, "output file")
	cmd.Flags().StringVarP(&cf.format, "format", "f", "", "png, jpeg, bmp or tiff (default: from the output extension)")
	cmd.Flags().DurationVar(&cf.timeout, "timeout", cf.timeout, "give up waiting for the server after this long")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.ExecuteContext(ctx)
}

func fetch(ctx context.Context, cf clientFlags) error {
	out := &display.File{Path: cf.output}
	if cf.format != "" {
		f, err := display.ParseFormat(cf.format)
		if err != nil {
			return err
		}
		out.Format = f
	}

	ctx, cancel := context.WithTimeout(ctx, cf.timeout)
	defer cancel()

	img, err := fetchImage(ctx, cf)
	if err != nil {
		return err
	}

	if err := out.Show(img); err != nil {
		return err
	}
	log.Printf("fully rendered file saved to %q", cf.output)
	return nil
}

// fetchImage talks irpc unless cf.url names the JSON websocket endpoint.
func fetchImage(ctx context.Context, cf clientFlags) (*image.RGBA, error) {
	if cf.url != "" && !strings.HasSuffix(cf.url, "/irpc") {
		log.Printf("asking %s for the rendered image", cf.url)
		img, err := transport.Fetch(ctx, cf.url)
		if err != nil {
			return nil, fmt.Errorf("transport.Fetch: %w", err)
		}
		return img, nil
	}

	addr := cf.addr
	if cf.url != "" {
		addr = cf.url
	}
	log.Printf("asking %s for the rendered image", addr)
	img, err := transport.FetchIrpc(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("transport.FetchIrpc: %w", err)
	}
	return img, nil
}
