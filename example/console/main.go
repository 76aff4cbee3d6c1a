package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zereker/flashtx"
	"github.com/Zereker/flashtx/actuator"
)

func main() {
	msg := "hello, world"
	if len(os.Args) > 1 {
		msg = os.Args[1]
	}

	bits, err := flashtx.Encode(msg)
	if err != nil {
		slog.Error("failed to encode message", "error", err)
		return
	}

	light := actuator.NewConsole(os.Stdout)
	defer light.Close()

	tx, err := flashtx.NewTransmitter(light)
	if err != nil {
		slog.Error("failed to create transmitter", "error", err)
		return
	}

	session, err := tx.Start(context.Background(), bits)
	if err != nil {
		slog.Error("failed to start transmission", "error", err)
		return
	}

	// Stop at the next slot on Ctrl-C
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		slog.Info("stopping transmission...")
		session.Cancel()
	}()

	outcome := session.Wait()
	sent, total := session.Progress()
	slog.Info("transmission done", "outcome", outcome.String(), "sent", sent, "total", total)
}
