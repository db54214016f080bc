//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
	"time"
)

// displayImage paints img onto the canvas.
func displayImage(img *image.RGBA) {
	start := time.Now()
	// 1. Get the Canvas element and its 2D context
	document := js.Global().Get("document")
	canvas := document.Call("getElementById", "myCanvas")
	ctx := canvas.Call("getContext", "2d")

	width := img.Rect.Dx()
	height := img.Rect.Dy()
	canvas.Set("width", width)
	canvas.Set("height", height)

	// 2. Copy the Go byte slice into a JS Uint8ClampedArray (width * height * 4)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	// 3. Create ImageData and put it on the canvas
	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
	logScreenf("draw took %s", time.Since(start))
}

// initCanvas sizes the canvas and fills it with color until the image arrives.
func initCanvas(width, height int, color string) {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "myCanvas")

	canvas.Set("width", width)
	canvas.Set("height", height)

	ctx := canvas.Call("getContext", "2d")

	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}
