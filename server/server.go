// Package server exposes the recent log buffer, configuration and sink
// statistics over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/lixenwraith/logsim"
	"github.com/lixenwraith/logsim/compat"
	"github.com/valyala/fasthttp"
)

// Server is the HTTP inspection surface
type Server struct {
	logger *logsim.Logger
	cfg    *logsim.Config
	srv    *fasthttp.Server
	start  time.Time
}

// statsResponse is the body of /api/stats
type statsResponse struct {
	Count int `json:"count"`
	logsim.Stats
}

// New creates a server reading from logger. fasthttp's own diagnostics are
// written back into logger.
func New(logger *logsim.Logger) (*Server, error) {
	adapter, err := compat.NewBuilder().WithLogger(logger).BuildFastHTTP()
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger: logger,
		cfg:    logger.Config(),
		start:  time.Now(),
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		Logger:       adapter,
		Name:         s.cfg.Name,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// ListenAndServe serves on addr until Shutdown
func (s *Server) ListenAndServe(addr string) error {
	return s.srv.ListenAndServe(addr)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handle routes a request
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	var handler fasthttp.RequestHandler
	switch string(ctx.Path()) {
	case "/":
		handler = s.handleIndex
	case "/api/logs":
		handler = s.handleLogs
	case "/api/config":
		handler = s.handleConfig
	case "/api/stats":
		handler = s.handleStats
	case "/health":
		handler = s.handleHealth
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
		return
	}

	if !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		ctx.Response.Header.Set("Allow", fasthttp.MethodGet)
		return
	}
	handler(ctx)
}

// handleIndex renders the HTML status page
func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	entries, count := s.logger.Recent().Snapshot(logsim.StatusPageEntries)

	var buf bytes.Buffer
	err := statusPage.Execute(&buf, struct {
		Name    string
		Config  []logsim.KeyValue
		Entries []logsim.Entry
		Count   int
	}{
		Name:    s.cfg.Name,
		Config:  s.cfg.Pairs(),
		Entries: entries,
		Count:   count,
	})
	if err != nil {
		ctx.Error("internal server error", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

// handleLogs returns the latest entries as a JSON array
func (s *Server) handleLogs(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, s.logger.Recent().Tail(logsim.APILogEntries))
}

// handleConfig returns the public configuration view
func (s *Server) handleConfig(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, s.cfg.ToMap())
}

// handleStats returns the buffer count and sink counters
func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, statsResponse{
		Count: s.logger.Recent().Size(),
		Stats: s.logger.Sink().Stats(),
	})
}

// handleHealth reports liveness
func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body, replying 500 if it cannot be encoded
func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.Error("internal server error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}
