package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/chazu/simian/compiler"
	simianv1 "github.com/chazu/simian/gen/simian/v1"
	"github.com/chazu/simian/gen/simian/v1/simianv1connect"
	"github.com/chazu/simian/object"
	"github.com/chazu/simian/runner"
)

// SyntaxErrorKind is the ErrorKind reported for programs that do not parse.
const SyntaxErrorKind = "syntax"

// EvalService implements the EvalService gRPC/Connect handler.
type EvalService struct {
	simianv1connect.UnimplementedEvalServiceHandler
	worker *Worker
	base   runner.Runner
}

// NewEvalService creates an EvalService. Every request runs on a copy of
// base with its own output buffer.
func NewEvalService(worker *Worker, base runner.Runner) *EvalService {
	return &EvalService{worker: worker, base: base}
}

// Evaluate parses and runs a program.
func (s *EvalService) Evaluate(
	ctx context.Context,
	req *connect.Request[simianv1.EvaluateRequest],
) (*connect.Response[simianv1.EvaluateResponse], error) {
	source := req.Msg.GetSource()
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	r := s.base
	if name := req.Msg.GetEngine(); name != "" {
		engine, err := runner.ParseEngine(name)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		r.Engine = engine
	}

	result, err := s.worker.Do(ctx, func() any {
		return evaluate(ctx, r, source)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, connect.NewError(contextCode(ctxErr), ctxErr)
		}
		return connect.NewResponse(&simianv1.EvaluateResponse{
			Success: false,
			Error:   err.Error(),
		}), nil
	}

	return connect.NewResponse(result.(*simianv1.EvaluateResponse)), nil
}

// CheckSyntax parses source without executing it.
func (s *EvalService) CheckSyntax(
	ctx context.Context,
	req *connect.Request[simianv1.CheckSyntaxRequest],
) (*connect.Response[simianv1.CheckSyntaxResponse], error) {
	source := req.Msg.GetSource()
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	p := compiler.NewParser(source)
	p.ParseProgram()
	errs := p.Errors()
	resp := &simianv1.CheckSyntaxResponse{Valid: len(errs) == 0}
	for _, e := range errs {
		resp.Diagnostics = append(resp.Diagnostics, &simianv1.Diagnostic{
			Line:    int32(e.Pos.Line),
			Column:  int32(e.Pos.Column),
			Message: e.Msg,
		})
	}
	return connect.NewResponse(resp), nil
}

// evaluate runs source on r, capturing puts output. Runs on a worker
// goroutine.
func evaluate(ctx context.Context, r runner.Runner, source string) *simianv1.EvaluateResponse {
	var out bytes.Buffer
	r.Out = &out

	value, err := r.Run(ctx, source)
	resp := &simianv1.EvaluateResponse{Output: out.String()}
	if err != nil {
		resp.Error = err.Error()
		var list compiler.ErrorList
		if errors.As(err, &list) {
			resp.ErrorKind = SyntaxErrorKind
		} else {
			resp.ErrorKind = object.KindName(err)
		}
		return resp
	}

	resp.Success = true
	resp.Value = value.Inspect()
	resp.Type = string(value.Type())
	return resp
}

func contextCode(err error) connect.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return connect.CodeDeadlineExceeded
	}
	return connect.CodeCanceled
}
