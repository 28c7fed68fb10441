package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/catalog"
	"github.com/roach88/balanca/internal/config"
	"github.com/roach88/balanca/internal/draft"
	"github.com/roach88/balanca/internal/history"
	"github.com/roach88/balanca/internal/pgstore"
	"github.com/roach88/balanca/internal/session"
	"github.com/roach88/balanca/internal/store"
)

// backend is what every command needs from a store. Both the SQLite and the
// PostgreSQL store implement it.
type backend interface {
	session.Store
	history.Reader
	catalog.Writer
	Close() error
}

var (
	_ backend = (*store.Store)(nil)
	_ backend = (*pgstore.Store)(nil)
)

// app is the per-invocation wiring of config, store, drafts and session.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   backend
	drafts  *draft.Store
	session *session.Session
	out     *OutputFormatter
}

// withApp opens the app for one command, runs fn and releases everything.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(a *app) error) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Warnings go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	a, err := openApp(cmd, opts, out)
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return err
	}
	defer a.close()

	return fn(a)
}

func openApp(cmd *cobra.Command, opts *RootOptions, out *OutputFormatter) (*app, error) {
	cfg, err := config.Load(config.Options{ConfigFile: opts.ConfigFile})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg, opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	slog.SetDefault(logger)

	logger.Debug("opening database", "driver", cfg.Database.Driver)
	st, err := openBackend(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	drafts, err := draft.Open(cfg.Draft.Dir)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open draft store", err)
	}

	sess := session.New(st, sessionConfig(cfg),
		session.WithDrafts(drafts),
		session.WithLogger(logger))
	if err := sess.Load(cmd.Context()); err != nil {
		// The batch still works; defaults read as zero until the store recovers.
		out.Warn("%s", userMessage(err))
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		drafts:  drafts,
		session: sess,
		out:     out,
	}, nil
}

func (a *app) close() {
	if err := a.drafts.Close(); err != nil {
		a.logger.Error("error closing draft store", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func openBackend(cfg *config.Config) (backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		st, err := pgstore.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverSQLite:
		st, err := store.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		BoneCategory:   cfg.Weighing.BoneCategory,
		DefaultTabName: cfg.Weighing.DefaultTabName,
		StoreName:      cfg.Report.Title,
		RequireBuyer:   cfg.Weighing.RequireBuyer,
		DraftKey:       cfg.Draft.Session,
	}
}

// fail reports err to the operator and converts it to an exit error.
func (a *app) fail(err error) error {
	var se *session.Error
	if errors.As(err, &se) {
		var details interface{}
		if se.Field != "" {
			details = map[string]string{"field": se.Field}
		}
		_ = a.out.Error(string(se.Code), se.Message, details)
		return WrapExitError(ExitFailure, se.Message, err)
	}
	_ = a.out.Error(ErrCodeIO, err.Error(), nil)
	return WrapExitError(ExitFailure, "command failed", err)
}

// usage reports a bad flag value.
func (a *app) usage(err error) error {
	_ = a.out.Error(ErrCodeUsage, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid arguments", err)
}

func userMessage(err error) string {
	var se *session.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
