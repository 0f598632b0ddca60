// simian CLI - runs programs from files or the command line, starts the
// REPL, the evaluation server or the language server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/tliron/commonlog"

	"github.com/chazu/simian/bytecode"
	simianv1 "github.com/chazu/simian/gen/simian/v1"
	"github.com/chazu/simian/gen/simian/v1/simianv1connect"
	"github.com/chazu/simian/manifest"
	"github.com/chazu/simian/runner"
	"github.com/chazu/simian/server"
	"github.com/chazu/simian/store"
)

var log = commonlog.GetLogger("simian.cli")

// options are the parsed command-line flags.
type options struct {
	engine    string
	stackSize int
	trace     bool
	expr      string
	compile   string
	dis       bool
	serve     bool
	addr      string
	lsp       bool
	remote    string
	config    string
	noCache   bool
	forget    bool
	verbosity int
	logFile   string
	args      []string

	set map[string]bool // flags given explicitly
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole CLI. It returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	m, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	configureLogging(m)

	if opts.lsp {
		if err := server.NewLSP().Run(); err != nil {
			fmt.Fprintf(stderr, "LSP error: %v\n", err)
			return 1
		}
		return 0
	}

	var cache *store.Store
	if path := m.CachePath(); path != "" && !opts.noCache && m.Runtime.Engine == manifest.EngineVM {
		cache, err = store.Open(path)
		if err != nil {
			// The cache only saves compile time; run without it.
			log.Warningf("bytecode cache disabled: %s", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}
	if opts.forget {
		return forget(cache, opts.args, stdout, stderr)
	}
	r := newRunner(m, stdout, cache)

	if opts.serve {
		srv := server.New(server.WithRunner(*r))
		defer srv.Stop()
		if err := srv.ListenAndServe(m.Server.Addr); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return 1
		}
		return 0
	}

	ctx := context.Background()

	if opts.expr != "" {
		return execute(ctx, r, opts, "-e", []byte(opts.expr), stdout, stderr)
	}
	if len(opts.args) == 0 {
		if opts.remote != "" {
			fmt.Fprintln(stderr, "Error: -remote needs a program (-e or a file)")
			return 2
		}
		runREPL(ctx, r, stdin, stdout)
		return 0
	}

	for _, path := range opts.args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if code := execute(ctx, r, opts, path, data, stdout, stderr); code != 0 {
			return code
		}
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("simian", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{set: map[string]bool{}}
	fs.StringVar(&opts.engine, "engine", manifest.DefaultEngine, "Execution engine: eval or vm")
	fs.IntVar(&opts.stackSize, "stack-size", manifest.DefaultStackSize, "VM operand stack capacity")
	fs.BoolVar(&opts.trace, "trace", false, "Log every VM instruction (needs -v 2)")
	fs.StringVar(&opts.expr, "e", "", "Run the given program text")
	fs.StringVar(&opts.compile, "compile", "", "Compile to a .smb bytecode file instead of running")
	fs.BoolVar(&opts.dis, "dis", false, "Print the disassembled bytecode instead of running")
	fs.BoolVar(&opts.serve, "serve", false, "Start the evaluation server (Connect HTTP/JSON)")
	fs.StringVar(&opts.addr, "addr", manifest.DefaultAddr, "Evaluation server address (used with -serve)")
	fs.BoolVar(&opts.lsp, "lsp", false, "Start the language server on stdio")
	fs.StringVar(&opts.remote, "remote", "", "Evaluate on a running server, e.g. http://localhost:4567")
	fs.StringVar(&opts.config, "config", "", "Directory holding simian.toml (default: search upward from .)")
	fs.BoolVar(&opts.noCache, "no-cache", false, "Do not use the bytecode cache")
	fs.BoolVar(&opts.forget, "forget", false, "Remove the given files from the bytecode cache instead of running them")
	fs.IntVar(&opts.verbosity, "v", 0, "Log verbosity (0-2)")
	fs.StringVar(&opts.logFile, "log", "", "Log to this file instead of stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: simian [options] [files...]\n\n")
		fmt.Fprintf(stderr, "Runs .sm source files or .smb bytecode files. Without files, starts a REPL.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  simian                          # Start REPL\n")
		fmt.Fprintf(stderr, "  simian prog.sm                  # Run a file on the VM\n")
		fmt.Fprintf(stderr, "  simian -engine eval prog.sm     # Run with the tree-walking evaluator\n")
		fmt.Fprintf(stderr, "  simian -e 'puts(len([1, 2]))'   # Run program text\n")
		fmt.Fprintf(stderr, "  simian -compile prog.smb prog.sm\n")
		fmt.Fprintf(stderr, "  simian -dis prog.smb            # Show bytecode\n")
		fmt.Fprintf(stderr, "  simian -forget prog.sm          # Drop prog.sm from the cache\n")
		fmt.Fprintf(stderr, "  simian -serve -addr :8080       # Start the evaluation server\n")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.args = fs.Args()

	if _, err := runner.ParseEngine(opts.engine); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, err
	}
	return opts, nil
}

// loadConfig reads simian.toml and applies explicit flags over it.
func loadConfig(opts *options) (*manifest.Manifest, error) {
	var (
		m   *manifest.Manifest
		err error
	)
	if opts.config != "" {
		m, err = manifest.Load(opts.config)
	} else {
		m, err = manifest.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		// Outside a project there is nowhere to keep a cache.
		m = manifest.Default()
		m.Cache.Path = ""
	}

	if opts.set["engine"] {
		m.Runtime.Engine = opts.engine
	}
	if opts.set["stack-size"] {
		m.Runtime.StackSize = opts.stackSize
	}
	if opts.set["trace"] {
		m.Runtime.Trace = opts.trace
	}
	if opts.set["addr"] {
		m.Server.Addr = opts.addr
	}
	if opts.set["v"] {
		m.Log.Verbosity = opts.verbosity
	}
	if opts.set["log"] {
		m.Log.File = opts.logFile
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func configureLogging(m *manifest.Manifest) {
	var path *string
	if m.Log.File != "" {
		path = &m.Log.File
	}
	commonlog.Configure(m.Log.Verbosity, path)
}

// newRunner builds the runner for m. cache may be nil.
func newRunner(m *manifest.Manifest, out io.Writer, cache *store.Store) *runner.Runner {
	if cache == nil {
		return runner.FromManifest(m, out, nil)
	}
	return runner.FromManifest(m, out, cache)
}

// execute handles one program: a source text or, for .smb files, encoded
// bytecode.
func execute(ctx context.Context, r *runner.Runner, opts *options, name string, data []byte, stdout, stderr io.Writer) int {
	isBytecode := strings.EqualFold(filepath.Ext(name), ".smb")

	if opts.remote != "" {
		if isBytecode {
			fmt.Fprintf(stderr, "Error: %s: -remote runs source files only\n", name)
			return 2
		}
		engine := ""
		if opts.set["engine"] {
			engine = opts.engine
		}
		return executeRemote(ctx, opts.remote, engine, string(data), stdout, stderr)
	}

	if opts.compile != "" || opts.dis || isBytecode {
		bc, err := loadBytecode(ctx, r, name, data, isBytecode)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return 1
		}
		switch {
		case opts.compile != "":
			if err := writeBytecode(opts.compile, bc); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			return 0
		case opts.dis:
			fmt.Fprint(stdout, bc.Disassemble())
			if depth, err := bc.MaxStackDepth(); err == nil {
				fmt.Fprintf(stdout, "; max stack depth %d\n", depth)
			}
			return 0
		}
		if _, err := r.RunBytecode(bc); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return 1
		}
		return 0
	}

	if _, err := r.Run(ctx, string(data)); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	return 0
}

func loadBytecode(ctx context.Context, r *runner.Runner, name string, data []byte, isBytecode bool) (*bytecode.Bytecode, error) {
	if isBytecode {
		bc, err := bytecode.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded %s: %d constants, %d code bytes", name, len(bc.Constants), len(bc.Instructions))
		return bc, nil
	}
	return r.Compile(ctx, string(data))
}

// forget drops the cached bytecode of each source file.
func forget(cache *store.Store, paths []string, stdout, stderr io.Writer) int {
	if cache == nil {
		fmt.Fprintln(stderr, "Error: no bytecode cache (needs a simian.toml project and the vm engine)")
		return 1
	}
	ctx := context.Background()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := cache.Delete(ctx, store.KeyOf(string(data))); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	n, err := cache.Len(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%d cached programs remain in %s\n", n, cache.Path())
	return 0
}

func writeBytecode(path string, bc *bytecode.Bytecode) error {
	data, err := bytecode.Marshal(bc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

func executeRemote(ctx context.Context, url, engine, source string, stdout, stderr io.Writer) int {
	client := simianv1connect.NewEvalServiceClient(http.DefaultClient, url)
	resp, err := client.Evaluate(ctx, connect.NewRequest(&simianv1.EvaluateRequest{Source: source, Engine: engine}))
	if err != nil {
		fmt.Fprintf(stderr, "Remote error: %v\n", err)
		return 1
	}
	msg := resp.Msg
	fmt.Fprint(stdout, msg.GetOutput())
	if !msg.GetSuccess() {
		fmt.Fprintf(stderr, "%s\n", msg.GetError())
		return 1
	}
	fmt.Fprintln(stdout, msg.GetValue())
	return 0
}
