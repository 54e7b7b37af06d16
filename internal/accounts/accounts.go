// Package accounts keeps the registered players and their point totals.
//
// The whole list lives in memory and is rewritten in full to a single
// key/value slot on every mutation.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/verte-zerg/typemaster/internal/model"
)

// StorageKey is the key/value slot holding the account list.
const StorageKey = "tm_users_v1"

var (
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned when no account matches a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownAccount is returned when mutating a missing account.
	ErrUnknownAccount = errors.New("unknown account")
)

// PersistError reports that the in-memory change could not be written.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save accounts: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// KV is the durable slot the account list is written to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Store holds accounts loaded from a KV slot.
type Store struct {
	kv       KV
	accounts []model.Account
	validate *validator.Validate
	log      *slog.Logger
}

// Open loads the account list from kv. A missing slot yields an empty store.
func Open(ctx context.Context, kv KV, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:       kv,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.accounts); err != nil {
			return nil, fmt.Errorf("failed to decode accounts: %w", err)
		}
	}
	return s, nil
}

// Register creates an account with zero points.
func (s *Store) Register(ctx context.Context, username, password string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if err := s.checkCredentials(username, password); err != nil {
		return model.Account{}, err
	}
	if _, ok := s.index(username); ok {
		return model.Account{}, ErrDuplicateUsername
	}
	acc := model.Account{Username: username, Password: password}
	s.accounts = append(s.accounts, acc)
	if err := s.persist(ctx); err != nil {
		s.accounts = s.accounts[:len(s.accounts)-1]
		return model.Account{}, err
	}
	s.log.Info("account registered", "username", username)
	return acc, nil
}

// Login returns the account matching both username and password.
func (s *Store) Login(username, password string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if err := s.checkCredentials(username, password); err != nil {
		return model.Account{}, err
	}
	for _, acc := range s.accounts {
		if acc.Username == username && acc.Password == password {
			return acc, nil
		}
	}
	return model.Account{}, ErrInvalidCredentials
}

// AddPoints adds delta to the account total and persists the list. When
// persisting fails the in-memory total keeps the increment and a
// *PersistError is returned alongside the updated account.
func (s *Store) AddPoints(ctx context.Context, username string, delta int) (model.Account, error) {
	if delta < 0 {
		return model.Account{}, &model.ValidationError{Field: "points", Reason: "delta must not be negative"}
	}
	i, ok := s.index(username)
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}
	s.accounts[i].TotalPoints += delta
	acc := s.accounts[i]
	if err := s.persist(ctx); err != nil {
		return acc, err
	}
	s.log.Info("points added", "username", username, "delta", delta, "total", acc.TotalPoints)
	return acc, nil
}

// Get returns the account for username.
func (s *Store) Get(username string) (model.Account, bool) {
	i, ok := s.index(username)
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// List returns a copy of all accounts in registration order.
func (s *Store) List() []model.Account {
	return append([]model.Account(nil), s.accounts...)
}

func (s *Store) index(username string) (int, bool) {
	for i, acc := range s.accounts {
		if acc.Username == username {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) checkCredentials(username, password string) error {
	err := s.validate.Struct(credentials{Username: username, Password: password})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &model.ValidationError{Field: strings.ToLower(verrs[0].Field()), Reason: "enter username and password"}
	}
	return err
}

func (s *Store) persist(ctx context.Context) error {
	records := s.accounts
	if records == nil {
		records = []model.Account{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return &PersistError{Err: err}
	}
	if err := s.kv.Put(ctx, StorageKey, raw); err != nil {
		s.log.Error("failed to save accounts", "err", err)
		return &PersistError{Err: err}
	}
	return nil
}
