package nats

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var log = logger.Named("nats")

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
// storeDir holds file-backed streams and buckets and is created if missing.
func StartEmbeddedNATS(storeDir string) (*server.Server, error) {
	if storeDir == "" {
		return nil, errors.New("nats store dir is required")
	}
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return nil, fmt.Errorf("creating nats store dir: %w", err)
	}
	log.Debug("Starting embedded NATS server with store dir: %s", storeDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true, // No network ports - in-process only
		NoSigs:     true, // The TUI owns signal handling
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		log.Error("Failed to create NATS server: %v", err)
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		log.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	log.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded NATS server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		log.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection and stops the server, bounding each phase
// with a timeout so a wedged server cannot hang process exit.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				log.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			log.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns == nil {
		return nil
	}

	ns.Shutdown()
	shutdownDone := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Debug("NATS server shut down cleanly")
		return nil
	case <-time.After(5 * time.Second):
		log.Error("NATS server shutdown timed out after 5s")
		return errors.New("NATS server shutdown timed out")
	}
}
