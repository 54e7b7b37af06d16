// Package app owns the application state: accounts, the logged-in user,
// the session machine and session history.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

// History records ended sessions.
type History interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) error
}

// App is the single controller driven by the presentation layer.
type App struct {
	ctx      context.Context
	accounts *accounts.Store
	history  History
	machine  *session.Machine
	user     string
	log      *slog.Logger
}

// New builds an App. The session machine is created with App as its
// result sink; opts are passed through to session.New.
func New(ctx context.Context, accts *accounts.Store, history History, src session.TextSource, logger *slog.Logger, opts ...session.Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		ctx:      ctx,
		accounts: accts,
		history:  history,
		log:      logger,
	}
	opts = append(opts, session.WithResultSink(a), session.WithLogger(logger))
	a.machine = session.New(src, opts...)
	return a
}

// Machine returns the session state machine.
func (a *App) Machine() *session.Machine {
	return a.machine
}

// Register creates an account. It does not log the user in.
func (a *App) Register(username, password string) (model.Account, error) {
	return a.accounts.Register(a.ctx, username, password)
}

// Login makes the matching account current.
func (a *App) Login(username, password string) (model.Account, error) {
	acc, err := a.accounts.Login(username, password)
	if err != nil {
		a.log.Info("login rejected", "username", username)
		return model.Account{}, err
	}
	a.user = acc.Username
	a.log.Info("logged in", "username", acc.Username)
	return acc, nil
}

// Logout abandons any running session and clears the current user.
func (a *App) Logout() error {
	if a.user == "" {
		return nil
	}
	_, err := a.machine.Abandon()
	a.log.Info("logged out", "username", a.user)
	a.user = ""
	return err
}

// CurrentUser returns the logged-in account.
func (a *App) CurrentUser() (model.Account, bool) {
	if a.user == "" {
		return model.Account{}, false
	}
	return a.accounts.Get(a.user)
}

// SessionEnded implements session.ResultSink. Awarded points go to the
// logged-in account; every result is recorded in history.
func (a *App) SessionEnded(res session.Result) error {
	if a.user == "" {
		return nil
	}
	var errs []error
	if res.Awarded {
		if _, err := a.accounts.AddPoints(a.ctx, a.user, res.Points); err != nil {
			errs = append(errs, err)
		}
	}
	if a.history != nil {
		rec := model.SessionRecord{
			ID:              res.ID,
			Username:        a.user,
			Mode:            res.Mode,
			Points:          res.Points,
			Typed:           res.Typed,
			DurationSeconds: res.Duration,
			ElapsedSeconds:  res.Elapsed,
			Reason:          res.Reason,
			Awarded:         res.Awarded,
			EndedAt:         res.EndedAt,
		}
		if err := a.history.InsertSession(a.ctx, rec); err != nil {
			a.log.Error("failed to record session", "id", res.ID, "err", err)
			errs = append(errs, fmt.Errorf("failed to record session: %w", err))
		}
	}
	return errors.Join(errs...)
}
