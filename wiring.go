package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"okinoko_ledger/config"
	"okinoko_ledger/contract"
	"okinoko_ledger/events"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// runtime is the ledger assembled from config plus everything that must be closed with it.
// recorder is nil unless the command prints the events it caused.
type runtime struct {
	ledger   *contract.Ledger
	recorder *events.Recorder
	closers  []func() error
	logger   *slog.Logger
}

func openRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, record bool) (*runtime, error) {
	rt := &runtime{logger: logger}

	st, err := openStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, st.Close)

	sinks := events.Multi{events.NewSlogSink(logger)}
	if record {
		rt.recorder = events.NewRecorder()
		sinks = append(sinks, rt.recorder)
	}
	if cfg.Events.RedisURL != "" {
		redisSink, err := events.NewRedisSink(cfg.Events.RedisURL, cfg.Events.Stream)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, redisSink.Close)
		sinks = append(sinks, redisSink)
		logger.InfoContext(ctx, "publishing events to redis", "stream", cfg.Events.Stream)
	}

	programID, err := sdk.ParsePubkey(cfg.ProgramID)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("program_id: %w", err)
	}
	rt.ledger, err = contract.New(st,
		contract.WithProgramID(programID),
		contract.WithOptions(contract.Options{
			StrictTextLimits:     cfg.Ledger.StrictTextLimits,
			DefaultVotingSeconds: cfg.Ledger.DefaultVotingSeconds,
		}),
		contract.WithSink(sinks),
		contract.WithLogger(logger),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func openStore(cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		if cfg.Snapshot != "" {
			return store.NewSnapshotStore(cfg.Snapshot)
		}
		return store.NewMemoryStore(), nil
	case config.BackendBadger:
		return store.OpenBadger(cfg.Path, logger)
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.Path, cfg.PoolSize, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// apply signs args into an envelope, verifies it, and submits it to the ledger.
func (rt *runtime) apply(ctx context.Context, signer sdk.Signer, action string, args json.Marshaler) (any, error) {
	payload, err := args.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", action, err)
	}
	envelope, err := sdk.SignEnvelope(signer, action, payload, "")
	if err != nil {
		return nil, err
	}
	env, err := envelope.Verify()
	if err != nil {
		return nil, err
	}
	return rt.ledger.Submit(ctx, env, envelope.Action, []byte(envelope.Payload))
}

// flushEvents prints the event lines recorded since the last flush.
func (rt *runtime) flushEvents(w io.Writer) {
	if rt.recorder == nil {
		return
	}
	for _, line := range rt.recorder.Lines() {
		fmt.Fprintln(w, line)
	}
	rt.recorder.Reset()
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	if err := errors.Join(errs...); err != nil {
		rt.logger.Error("closing ledger resources", "error", err)
		return err
	}
	return nil
}
