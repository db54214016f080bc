package main

import (
	"log"

	"github.com/marben/irpc"
	mandel "github.com/marben/strip_mandel"
)

// newIrpcServer exposes p as mandel.ImgProvider to irpc clients.
// The same server serves both the tcp and the websocket listener.
func newIrpcServer(p mandel.ImgProvider) *irpc.Server {
	srv := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		log.Printf("got connection from: %s", ep.RemoteAddr())
	}))
	srv.AddService(mandel.NewImgProviderIrpcService(p))
	return srv
}
