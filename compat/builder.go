package compat

import (
	"errors"

	"github.com/lixenwraith/logsim"
)

// ErrNoLogger is returned when adapters are built without a logger
var ErrNoLogger = errors.New("logsim/compat: no logger provided")

// Builder creates adapters for gnet and fasthttp sharing one *logsim.Logger.
// The logger is owned by the caller; the builder never opens one itself.
type Builder struct {
	logger *logsim.Logger
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies the logger the adapters write to
func (b *Builder) WithLogger(l *logsim.Logger) *Builder {
	if l == nil {
		b.err = ErrNoLogger
		return b
	}
	b.logger = l
	return b
}

// getLogger resolves the logger to be used
func (b *Builder) getLogger() (*logsim.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger == nil {
		return nil, ErrNoLogger
	}
	return b.logger, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}
