// Package config provides typed access to the durable key/value
// configuration table, seeded with defaults on first use.
package config

import (
	"context"
	"strconv"

	"github.com/queuectl/queuectl/internal/storage"
)

// Keys used throughout queuectl.
const (
	MaxRetries         = "max_retries"
	BackoffBase        = "backoff_base"
	WorkerDefaultCount = "worker_default_count"
	AbandonedThreshold = "abandoned_threshold"
	PollInterval       = "poll_interval"
	LogLevel           = "log_level"
)

// Defaults mirrors the factory configuration an operator gets on a
// freshly initialized database.
var Defaults = map[string]string{
	MaxRetries:         "3",
	BackoffBase:        "2",
	WorkerDefaultCount: "1",
	AbandonedThreshold: "3600",
	PollInterval:       "1.0",
	LogLevel:           "INFO",
}

// Store reads and writes configuration backed by a storage.Store.
type Store struct {
	db *storage.Store
}

// New wraps db with typed configuration accessors.
func New(db *storage.Store) *Store {
	return &Store{db: db}
}

// Seed writes every default that is not already present. It is safe
// to call on every startup; existing values are left untouched.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.db.GetAllConfig(ctx)
	if err != nil {
		return err
	}
	for key, value := range Defaults {
		if _, ok := existing[key]; ok {
			continue
		}
		if err := s.db.SetConfig(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw string value for key, falling back to the
// built-in default if the key is unset or unknown.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, ok, err := s.db.GetConfig(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		return value, nil
	}
	return Defaults[key], nil
}

// GetInt returns key parsed as an int, falling back to the built-in
// default's parse on any failure.
func (s *Store) GetInt(ctx context.Context, key string) (int, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return strconv.Atoi(Defaults[key])
	}
	return n, nil
}

// GetFloat returns key parsed as a float64, falling back to the
// built-in default's parse on any failure.
func (s *Store) GetFloat(ctx context.Context, key string) (float64, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return strconv.ParseFloat(Defaults[key], 64)
	}
	return f, nil
}

// Set writes key to value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.db.SetConfig(ctx, key, value)
}

// GetAll returns every configured key merged over the built-in
// defaults, so callers always see a complete configuration.
func (s *Store) GetAll(ctx context.Context) (map[string]string, error) {
	existing, err := s.db.GetAllConfig(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		out[k] = v
	}
	for k, v := range existing {
		out[k] = v
	}
	return out, nil
}
