// Command scriptdebug is an interactive REPL for stepping a BCH script
// evaluation one instruction at a time: load a locking/unlocking script
// pair, set breakpoints, step or run, and inspect the stack at any
// point.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bchscript/bchengine/pkg/metrics"
)

var completer *readline.PrefixCompleter

func init() {
	var items []readline.PrefixCompleterInterface
	for _, c := range commands {
		items = append(items, readline.PcItem(c.Name))
	}
	completer = readline.NewPrefixCompleter(items...)
}

// repl wires a urfave/cli app to a readline instance: the app supplies
// command parsing and help text, readline supplies line editing and
// history, and shellquote tokenizes each line the way a shell would.
type repl struct {
	shell *cli.App
	rl    *readline.Instance
	log   *zap.Logger
}

func newLogger() (*zap.Logger, error) {
	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.Encoding = "console"
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return cc.Build()
}

func newREPL() (*repl, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	sessionID := uuid.New().String()
	log = log.With(zap.String("session", sessionID))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "script> ",
		AutoComplete: completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}

	shell := cli.NewApp()
	shell.Name = "scriptdebug"
	shell.HelpName = ""
	shell.UsageText = ""
	shell.Usage = "interactive BCH script evaluation debugger"
	shell.Writer = rl.Stdout()
	shell.ErrWriter = rl.Stderr()
	shell.Commands = commands
	shell.ExitErrHandler = func(*cli.Context, error) {}

	exitFunc := func(code int) {
		_ = rl.Close()
		_ = log.Sync()
		os.Exit(code)
	}
	shell.Metadata = map[string]interface{}{
		sessionKey:  newSession(log),
		exitFuncKey: exitFunc,
	}

	log.Info("debugger session started")
	return &repl{shell: shell, rl: rl, log: log}, nil
}

// run reads lines from stdin until EOF or interrupt, dispatching each
// to the command table.
func (r *repl) run() error {
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(r.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue
		}
		if len(args) == 0 {
			continue
		}

		if err := r.shell.Run(append([]string{"scriptdebug"}, args...)); err != nil {
			r.log.Warn("command failed", zap.String("command", args[0]), zap.Error(err))
			writeErr(r.shell.ErrWriter, err)
		}
	}
}

func main() {
	r, err := newREPL()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := r.run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
