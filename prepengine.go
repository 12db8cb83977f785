// Package prepengine is the embeddable client engine of the Dekho exam-prep
// app: phone/OTP login, catalog and subscription lookups, and the timed
// test-attempt lifecycle, all against the remote test service's REST API.
//
// The host UI constructs one Engine per app session, an attempt session per
// exam run, and reads state snapshots; it never mutates engine state directly.
package prepengine

import (
	"fmt"

	"github.com/dekho-exam/prep-engine/internal/api"
	"github.com/dekho-exam/prep-engine/internal/auth"
	"github.com/dekho-exam/prep-engine/internal/config"
	"github.com/dekho-exam/prep-engine/internal/engine"
	"github.com/dekho-exam/prep-engine/internal/logger"
	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/dekho-exam/prep-engine/internal/storage"
	"github.com/rs/zerolog"
)

// Engine bundles one app session's components: configuration, logging, the
// API client and the auth layer, plus constructors for attempt sessions and
// the entry/exit fetchers.
type Engine struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *api.Client

	// Tokens caches the session tokens and profile on device.
	Tokens *auth.TokenStore
	// Login drives the phone/OTP sequence.
	Login *auth.Flow
}

// New loads configuration from the environment and wires the engine.
func New() (*Engine, error) {
	return NewWithConfig(config.Load())
}

// NewWithConfig wires the engine over an explicit configuration.
func NewWithConfig(cfg *config.Config) (*Engine, error) {
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := storage.NewFileStore(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	tokens := auth.NewTokenStore(store, log)
	if err := tokens.Bootstrap(); err != nil {
		return nil, fmt.Errorf("bootstrap auth: %w", err)
	}

	client := api.NewClient(cfg, tokens, log)

	return &Engine{
		cfg:    cfg,
		log:    log,
		client: client,
		Tokens: tokens,
		Login:  auth.NewFlow(client, tokens, log),
	}, nil
}

// API exposes the raw service client: catalog, billing and profile calls go
// through it directly, they carry no client-side state.
func (e *Engine) API() *api.Client { return e.client }

// NewAttempt creates the session store for one run through one test. The
// caller must Init it before use and Close it on every exit path from the
// exam screen.
func (e *Engine) NewAttempt(testID string, cb engine.Callbacks) *engine.Session {
	return engine.NewSession(e.client.Tests, testID, e.cfg, e.log, cb)
}

// Instructions gates the "ready to start" UI for a test.
func (e *Engine) Instructions(testID string) *engine.Fetcher[*model.Instructions] {
	return engine.NewInstructionsFetcher(e.client.Tests, testID)
}

// Result loads the score summary of a submitted attempt.
func (e *Engine) Result(attemptID string) *engine.Fetcher[*model.Result] {
	return engine.NewResultFetcher(e.client.Tests, attemptID)
}

// Solutions loads the per-question breakdown of a submitted attempt.
func (e *Engine) Solutions(attemptID string) *engine.Fetcher[*model.SolutionSet] {
	return engine.NewSolutionsFetcher(e.client.Tests, attemptID)
}

// History loads the student's past attempts.
func (e *Engine) History() *engine.Fetcher[[]model.AttemptSummary] {
	return engine.NewHistoryFetcher(e.client.Tests)
}
