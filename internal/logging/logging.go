// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging defines the leveled logger used by the adapters (batch
// runner, CLI) and a go-logger backed implementation. Core packages do not
// log.
package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is a leveled logger taking a message and key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOp returns a logger that discards everything.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// Config selects the level and output format of a Provider.
type Config struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// Provider hands out named loggers that share one go-logger root.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds a provider. Format is "console" (default) or "json".
func NewProvider(cfg Config) (*Provider, error) {
	var opts []glog.Option
	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		opts = append(opts, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		opts = append(opts, glog.WithLoggerTypeConsole())
	case "json":
		opts = append(opts, glog.WithLoggerTypeJSON())
	default:
		return nil, fmt.Errorf("unsupported log format %q (want console or json)", cfg.Format)
	}
	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}
	return &Provider{root: glog.NewLogger(opts...)}, nil
}

// Logger returns the logger for a component. A nil provider yields NoOp.
func (p *Provider) Logger(name string) Logger {
	if p == nil {
		return NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) Logger {
	if inner == nil {
		return NoOp()
	}
	return adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	}
	return "", fmt.Errorf("unsupported log level %q", level)
}
