package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/config"
	"github.com/mark3labs/casewiz/internal/logger"
	casenats "github.com/mark3labs/casewiz/internal/nats"
	"github.com/mark3labs/casewiz/internal/submit"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// backend owns the embedded NATS server and the stores built on it.
type backend struct {
	ns *server.Server
	nc *nats.Conn

	store     autosave.Store
	submitter submit.Submitter
}

// openBackend starts NATS under cfg.DataDir and wires the draft store and
// the case stream. Drafts live in a file-backed KV bucket when
// autosave_storage is "file" and in process memory otherwise.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	storeDir := filepath.Join(cfg.DataDir, "data")
	logger.Debug("Starting embedded NATS in %s", storeDir)

	ns, err := casenats.StartEmbeddedNATS(storeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS: %w", err)
	}
	nc, err := casenats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	b := &backend{ns: ns, nc: nc}

	js, err := casenats.CreateJetStream(nc)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create JetStream: %w", err)
	}

	if cfg.AutosaveStorage == config.StorageFile {
		kv, err := casenats.SetupDraftBucket(ctx, js, true)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.store = autosave.NewKVStore(kv)
	} else {
		b.store = autosave.NewMemoryStore()
	}

	if _, err := casenats.SetupCaseStream(ctx, js); err != nil {
		b.Close()
		return nil, err
	}
	b.submitter = submit.NewJetStreamSubmitter(js)
	return b, nil
}

// Close drains the connection and stops the server.
func (b *backend) Close() {
	if err := casenats.Shutdown(b.nc, b.ns); err != nil {
		logger.Warn("NATS shutdown: %v", err)
	}
}
