package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/irpc"
	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/config"
	"github.com/marben/strip_mandel/scheduler"
	"github.com/spf13/cobra"
)

// main is the entry point for the Mandelbrot server.
// The server renders one image at start-up and serves it to web and CLI clients.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type serverFlags struct {
	port    int
	tcpPort int
	static  string
	origins []string
}

func run() error {
	cfg := config.Default()
	sf := serverFlags{port: 8080, tcpPort: 8081, static: "./static"}

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Render a Mandelbrot image and serve it over tcp, websocket and HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, sf)
		},
	}
	cfg.AddFlags(cmd.Flags())
	cmd.Flags().IntVarP(&sf.port, "port", "p", sf.port, "HTTP port")
	cmd.Flags().IntVar(&sf.tcpPort, "tcp-port", sf.tcpPort, "irpc tcp port")
	cmd.Flags().StringVar(&sf.static, "static", sf.static, "directory with index.html and main.wasm")
	cmd.Flags().StringSliceVar(&sf.origins, "origin", nil, "extra origin patterns allowed to open the websocket")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.ExecuteContext(ctx)
}

func serve(ctx context.Context, cfg config.Config, sf serverFlags) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mandel.SetLogger(cfg.NewLogger(os.Stderr))

	p, err := cfg.Params()
	if err != nil {
		return err
	}

	job := newRenderJob(p.Width, p.Height, 0)
	sched, err := cfg.Scheduler(scheduler.WithProgress(job.progress))
	if err != nil {
		return err
	}
	job.workers = sched.Workers()

	// clients connecting before the render is done wait for it in GetImage
	go func() {
		log.Printf("rendering %dx%d on %d workers", p.Width, p.Height, sched.Workers())
		_ = sched.RenderTo(ctx, p, job)
	}()

	// TCP
	log.Printf("tcp listening on port: %d", sf.tcpPort)
	tcpListener, err := net.Listen("tcp", fmt.Sprintf(":%d", sf.tcpPort))
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// WEBSOCKET
	websocketListener, httpServer := webServer(ctx, sf.port, job, sf.static, sf.origins)

	// irpcServer serves both the tcp and the websocket listener
	irpcServer := newIrpcServer(job)

	errCh := make(chan error, 3)
	go func() {
		errCh <- fmt.Errorf("httpServer: %w", httpServer.ListenAndServe())
	}()
	go func() {
		errCh <- fmt.Errorf("irpcServer.Serve tcp: %w", irpcServer.Serve(tcpListener))
	}()
	go func() {
		errCh <- fmt.Errorf("irpcServer.Serve ws: %w", irpcServer.Serve(websocketListener))
	}()

	log.Printf("mb server waiting for tcp and websocket connections")
	select {
	case err := <-errCh:
		_ = irpcServer.Close()
		_ = httpServer.Close()
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	if err := irpcServer.Close(); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
		log.Printf("irpcServer.Close: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}
