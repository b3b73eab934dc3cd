package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli"

	"github.com/bchscript/bchengine/pkg/txcontext"
)

const (
	sessionKey  = "session"
	exitFuncKey = "exitFunc"
)

var commands = []cli.Command{
	{
		Name:      "loadhex",
		Usage:     "Load a locking script (and optional unlocking script) from hex",
		UsageText: "loadhex <lockingHex> [unlockingHex]",
		Description: `Parses the given hex as a locking script, optionally prefixed
by an unlocking script, and resets the session to the first instruction.

Example:
> loadhex 76a9146efcc2c6d3c9de0e8692c9a1b6c94ccd1e4d2b5e88ac 47304402...`,
		Flags: []cli.Flag{
			cli.Int64Flag{Name: "value", Usage: "output value in satoshis"},
			cli.Uint64Flag{Name: "locktime", Usage: "nLockTime of the spending transaction"},
			cli.Uint64Flag{Name: "sequence", Usage: "nSequence of the spent input"},
		},
		Action: handleLoadHex,
	},
	{
		Name:        "reset",
		Usage:       "Reset the session to the start of the loaded script",
		UsageText:   "reset",
		Description: "Reset the session to the start of the loaded script, clearing breakpoints.",
		Action:      handleReset,
	},
	{
		Name:        "ip",
		Usage:       "Show the current instruction pointer",
		UsageText:   "ip",
		Description: "Show the current instruction pointer and the instruction about to execute.",
		Action:      handleIP,
	},
	{
		Name:      "break",
		Usage:     "Toggle a breakpoint",
		UsageText: "break <ip>",
		Description: `<ip> is mandatory. Running this command again on the same <ip>
removes the breakpoint.

Example:
> break 4`,
		Action: handleBreak,
	},
	{
		Name:      "jump",
		Usage:     "Jump to the given instruction pointer without executing anything",
		UsageText: "jump <ip>",
		Description: `<ip> is mandatory (absolute instruction index).

Example:
> jump 4`,
		Action: handleJump,
	},
	{
		Name:        "stack",
		Usage:       "Show the data stack",
		UsageText:   "stack",
		Description: "Show the data stack contents, hex-encoded, top first.",
		Action:      handleStack,
	},
	{
		Name:        "altstack",
		Usage:       "Show the alternate stack",
		UsageText:   "altstack",
		Description: "Show the alternate stack contents, hex-encoded, top first.",
		Action:      handleAltStack,
	},
	{
		Name:        "ops",
		Usage:       "List the loaded instruction sequence",
		UsageText:   "ops",
		Description: "List every instruction, marking the current ip and any breakpoints.",
		Action:      handleOps,
	},
	{
		Name:      "step",
		Usage:     "Execute the next n instructions (default 1)",
		UsageText: "step [n]",
		Description: `Executes up to n instructions, stopping early if the script
terminates or a breakpoint is reached.

Example:
> step 3`,
		Action: handleStep,
	},
	{
		Name:        "run",
		Usage:       "Run to completion or to the next breakpoint",
		UsageText:   "run",
		Description: "Run from the current ip to completion or to the next breakpoint.",
		Action:      handleRun,
	},
	{
		Name:        "cont",
		Usage:       "Alias for run",
		UsageText:   "cont",
		Description: "Alias for run.",
		Action:      handleRun,
	},
	{
		Name:        "verify",
		Usage:       "Report whether the evaluation has succeeded",
		UsageText:   "verify",
		Description: "Report whether the terminated evaluation satisfies the success predicate.",
		Action:      handleVerify,
	},
	{
		Name:        "dump",
		Usage:       "Print the current state as JSON",
		UsageText:   "dump",
		Description: "Print an ordered JSON snapshot of the current evaluation state.",
		Action:      handleDump,
	},
	{
		Name:        "exit",
		Usage:       "Exit the debugger",
		UsageText:   "exit",
		Description: "Exit the debugger.",
		Action:      handleExit,
	},
}

func getSession(app *cli.App) *session {
	return app.Metadata[sessionKey].(*session)
}

func getExitFunc(app *cli.App) func(int) {
	return app.Metadata[exitFuncKey].(func(int))
}

func checkReady(c *cli.Context) bool {
	if !getSession(c.App).ready() {
		writeErr(c.App.ErrWriter, ErrNoProgramLoaded)
		return false
	}
	return true
}

func handleLoadHex(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return ErrMissingParameter
	}
	var unlockingHex string
	if len(args) > 1 {
		unlockingHex = args[1]
	}

	ctx := &txcontext.Context{
		OutputValue: uint64(c.Int64("value")),
		Locktime:    uint32(c.Uint64("locktime")),
	}
	if c.IsSet("sequence") {
		ctx.SequenceNumber = uint32(c.Uint64("sequence"))
	}

	s := getSession(c.App)
	if err := s.load(unlockingHex, args[0], ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "loaded %d instructions\n", len(s.state.Instructions))
	return nil
}

func handleReset(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	getSession(c.App).reset()
	return nil
}

func handleIP(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	s := getSession(c.App).state
	if s.IP < len(s.Instructions) {
		fmt.Fprintf(c.App.Writer, "ip=%d next=%s\n", s.IP, s.Instructions[s.IP].Opcode)
	} else {
		fmt.Fprintf(c.App.Writer, "ip=%d (end of script)\n", s.IP)
	}
	return nil
}

func handleBreak(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	args := c.Args()
	if len(args) < 1 {
		return ErrMissingParameter
	}
	ip, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	s := getSession(c.App)
	if s.breakpoints[ip] {
		delete(s.breakpoints, ip)
		fmt.Fprintf(c.App.Writer, "breakpoint removed at %d\n", ip)
	} else {
		s.breakpoints[ip] = true
		fmt.Fprintf(c.App.Writer, "breakpoint set at %d\n", ip)
	}
	return nil
}

func handleJump(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	args := c.Args()
	if len(args) < 1 {
		return ErrMissingParameter
	}
	ip, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	getSession(c.App).state.IP = ip
	return nil
}

func printElems(w io.Writer, label string, elems [][]byte) {
	fmt.Fprintf(w, "%s (%d):\n", label, len(elems))
	for i := len(elems) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  %d: %s\n", len(elems)-1-i, hex.EncodeToString(elems[i]))
	}
}

func handleStack(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	printElems(c.App.Writer, "stack", getSession(c.App).state.Stack)
	return nil
}

func handleAltStack(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	printElems(c.App.Writer, "altstack", getSession(c.App).state.AltStack)
	return nil
}

func handleOps(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	s := getSession(c.App)
	for i, inst := range s.state.Instructions {
		marker := "  "
		if i == s.state.IP {
			marker = "=>"
		}
		bp := ""
		if s.breakpoints[i] {
			bp = " [bp]"
		}
		if len(inst.Data) > 0 {
			fmt.Fprintf(c.App.Writer, "%s %3d: %s %s%s\n", marker, i, inst.Opcode, hex.EncodeToString(inst.Data), bp)
		} else {
			fmt.Fprintf(c.App.Writer, "%s %3d: %s%s\n", marker, i, inst.Opcode, bp)
		}
	}
	return nil
}

func reportHalt(c *cli.Context, s *session) {
	st := s.state
	switch {
	case st.Err != nil:
		fmt.Fprintf(c.App.Writer, "failed: %s\n", st.Err)
	case !st.Continue():
		if s.verified() {
			fmt.Fprintln(c.App.Writer, "halted: succeeded")
		} else {
			fmt.Fprintln(c.App.Writer, "halted: failed (stack does not hold a lone true value)")
		}
	default:
		fmt.Fprintf(c.App.Writer, "stopped at ip=%d\n", st.IP)
	}
}

func handleStep(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	n := 1
	if args := c.Args(); len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
	}
	s := getSession(c.App)
	s.stepN(n)
	reportHalt(c, s)
	return nil
}

func handleRun(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	s := getSession(c.App)
	s.runToStop()
	reportHalt(c, s)
	return nil
}

func handleVerify(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	s := getSession(c.App)
	fmt.Fprintln(c.App.Writer, s.verified())
	return nil
}

func handleDump(c *cli.Context) error {
	if !checkReady(c) {
		return nil
	}
	out, err := newSnapshot(getSession(c.App).state).marshalIndent()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func handleExit(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, "bye")
	getExitFunc(c.App)(0)
	return nil
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", err)
}
