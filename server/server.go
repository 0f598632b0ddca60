// Package server exposes the runtime over the network: a Connect evaluation
// service (Connect, gRPC and gRPC-Web over protobuf or JSON) and a stdio language server.
package server

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/tliron/commonlog"

	"github.com/chazu/simian/gen/simian/v1/simianv1connect"
	"github.com/chazu/simian/runner"
)

var log = commonlog.GetLogger("simian.server")

// SimianServer serves the evaluation service.
type SimianServer struct {
	worker *Worker
	mux    *http.ServeMux
}

// ServerOption configures a SimianServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	runner  runner.Runner
	workers int
}

// WithRunner sets the engine configuration every request starts from. Its
// Out field is ignored.
func WithRunner(r runner.Runner) ServerOption {
	return func(c *serverConfig) { c.runner = r }
}

// WithWorkers bounds the number of programs evaluated at once. The default
// is GOMAXPROCS.
func WithWorkers(n int) ServerOption {
	return func(c *serverConfig) { c.workers = n }
}

// New creates a SimianServer.
func New(opts ...ServerOption) *SimianServer {
	cfg := &serverConfig{
		runner:  runner.Runner{Engine: runner.VM},
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &SimianServer{
		worker: NewWorker(cfg.workers),
		mux:    http.NewServeMux(),
	}

	evalSvc := NewEvalService(s.worker, cfg.runner)
	evalPath, evalHandler := simianv1connect.NewEvalServiceHandler(evalSvc)
	s.mux.Handle(evalPath, evalHandler)

	log.Debugf("evaluation server ready: engine=%s workers=%d", cfg.runner.Engine, cfg.workers)
	return s
}

// Handler returns the HTTP handler serving all services.
func (s *SimianServer) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address.
// The address should be in the form "host:port" or ":port".
func (s *SimianServer) ListenAndServe(addr string) error {
	fmt.Printf("simian evaluation server listening on %s\n", addr)
	fmt.Printf("  Connect (HTTP/JSON): http://%s%s\n", addr, simianv1connect.EvalServiceEvaluateProcedure)
	fmt.Printf("  gRPC (binary):       grpc://%s\n", addr)
	srv := &http.Server{
		Addr:      addr,
		Handler:   s.mux,
		Protocols: Protocols(),
	}
	return srv.ListenAndServe()
}

// Protocols are the HTTP versions the server accepts. gRPC clients need
// HTTP/2, which they speak without TLS.
func Protocols() *http.Protocols {
	p := new(http.Protocols)
	p.SetHTTP1(true)
	p.SetUnencryptedHTTP2(true)
	return p
}

// Stop shuts down the server's workers.
func (s *SimianServer) Stop() {
	s.worker.Stop()
}
