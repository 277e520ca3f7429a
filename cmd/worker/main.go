package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"orderhub/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config and verify queue topology.
// 2) Build app wiring (consumers, retry policy, demo publisher).
// 3) Run consumer pools until interrupted.
func main() {
	log.Println("orderhub worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("orderhub worker stopped with error: %v", err)
	}
}
