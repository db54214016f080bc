//go:build js && wasm

// webclient.go is a WASM web client for the Mandelbrot server.
// It shows the server's render progress and paints the finished image on a canvas.

package main

import (
	"context"
	"fmt"
	"log"
	"syscall/js"
	"time"

	"github.com/marben/strip_mandel/transport"
)

// main is the entry point for the WASM web client.
func main() {
	logScreenf("Starting WASM web client...")

	// Step 1: Determine server addresses from the page location
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"
	statusUrl := loc.Get("origin").String() + "/status"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 2: Initialize canvas with full image dimensions
	st, err := transport.FetchStatus(ctx, statusUrl)
	if err != nil {
		logFatalf("Failed to get render status: %v", err)
	}
	logScreenf("Dimensions: %dx%d", st.Width, st.Height)
	initCanvas(st.Width, st.Height, "#3a3a6e")
	hudUpdate(st)

	// Step 3: Poll progress while the websocket waits for the image
	go progressLoop(ctx, statusUrl)

	logScreenf("Connecting to Mandelbrot server at %s...", websocketUrl)
	start := time.Now()
	img, err := transport.Fetch(ctx, websocketUrl)
	if err != nil {
		logFatalf("Render failed: %v", err)
	}
	logScreenf("Image received after %s", time.Since(start))

	displayImage(img)

	// Step 4: Block main goroutine to keep WASM running
	cancel()
	select {}
}

// progressLoop polls the server for render status until ctx ends.
// Polling for brevity, instead of pushing updates from the server.
func progressLoop(ctx context.Context, url string) {
	for {
		st, err := transport.FetchStatus(ctx, url)
		if err != nil {
			if ctx.Err() == nil {
				logScreenf("status: %v", err)
			}
			return
		}
		hudUpdate(st)
		if st.Done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// logScreenf appends a formatted message to the log element in the DOM,
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

// hudUpdate shows worker count and progress of the server's render.
func hudUpdate(st transport.Status) {
	doc := js.Global().Get("document")
	doc.Call("getElementById", "workersRunning").Set("textContent", st.Workers)
	doc.Call("getElementById", "progress").Set("textContent", fmt.Sprintf("%.0f%%", st.Finished*100))
}
