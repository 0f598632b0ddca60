// Package runner ties the front end to an execution engine. It parses
// source, then either walks the tree or compiles it (through an optional
// bytecode cache) and runs the result on the VM.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/compiler"
	"github.com/chazu/simian/evaluator"
	"github.com/chazu/simian/manifest"
	"github.com/chazu/simian/object"
	"github.com/chazu/simian/store"
	"github.com/chazu/simian/vm"
)

var log = commonlog.GetLogger("simian.runner")

// Engine selects how programs are executed.
type Engine string

const (
	Eval Engine = manifest.EngineEval
	VM   Engine = manifest.EngineVM
)

// ParseEngine converts an engine name to an Engine.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case Eval, VM:
		return Engine(name), nil
	}
	return "", fmt.Errorf("unknown engine %q (want %q or %q)", name, Eval, VM)
}

// Cache stores compiled bytecode by source key. *store.Store implements it.
type Cache interface {
	Get(ctx context.Context, key store.Key) (*bytecode.Bytecode, error)
	Put(ctx context.Context, key store.Key, bc *bytecode.Bytecode) error
}

// Runner executes programs. The zero value runs on the VM with the default
// stack size, writing to os.Stdout, without a cache.
type Runner struct {
	Engine    Engine
	StackSize int
	Trace     bool
	Out       io.Writer
	Cache     Cache
}

// FromManifest returns a Runner configured from m's runtime section.
func FromManifest(m *manifest.Manifest, out io.Writer, cache Cache) *Runner {
	return &Runner{
		Engine:    Engine(m.Runtime.Engine),
		StackSize: m.Runtime.StackSize,
		Trace:     m.Runtime.Trace,
		Out:       out,
		Cache:     cache,
	}
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Run parses and executes source, returning the program's value. Syntax
// errors are returned as a compiler.ErrorList; runtime failures as
// *object.Error.
func (r *Runner) Run(ctx context.Context, source string) (object.Object, error) {
	switch r.Engine {
	case Eval:
		prog, err := compiler.Parse(source)
		if err != nil {
			return nil, err
		}
		return evaluator.New(r.out()).EvalProgram(prog)
	case VM, "":
		bc, err := r.Compile(ctx, source)
		if err != nil {
			return nil, err
		}
		return r.RunBytecode(bc)
	}
	return nil, fmt.Errorf("unknown engine %q", r.Engine)
}

// Compile returns bytecode for source, consulting the cache first when one
// is configured. Cache failures are logged and otherwise ignored.
func (r *Runner) Compile(ctx context.Context, source string) (*bytecode.Bytecode, error) {
	if r.Cache == nil {
		return compiler.CompileSource(source)
	}

	key := store.KeyOf(source)
	bc, err := r.Cache.Get(ctx, key)
	if err == nil {
		log.Debugf("cache hit %s", key)
		return bc, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Warningf("cache lookup %s: %s", key, err)
	}

	bc, err = compiler.CompileSource(source)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Put(ctx, key, bc); err != nil {
		log.Warningf("cache store %s: %s", key, err)
	}
	return bc, nil
}

// RunBytecode executes bc on a fresh VM. The bytecode is validated first,
// so malformed input fails before any instruction runs.
func (r *Runner) RunBytecode(bc *bytecode.Bytecode) (object.Object, error) {
	if err := bc.Validate(); err != nil {
		return nil, object.Errorf(vm.ErrBadInstruction, "%s", err)
	}
	opts := []vm.Option{vm.WithOutput(r.out()), vm.WithTrace(r.Trace)}
	if r.StackSize > 0 {
		opts = append(opts, vm.WithStackSize(r.StackSize))
	}
	machine := vm.New(bc, opts...)
	if err := machine.Run(); err != nil {
		return nil, err
	}
	return machine.Result(), nil
}
