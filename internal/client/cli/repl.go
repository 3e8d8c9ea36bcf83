package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

type command struct {
	name  string
	usage string
	// auth commands are hidden and refused until the user logs in.
	auth bool
	run  func(ctx context.Context, args []string) error
}

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	lookup(name string) (command, bool)
	help() string
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first token of a line selects the command, the rest are its arguments.
// Errors returned by commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ff%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(a.help())
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			cmd, ok := a.lookup(name)
			switch {
			case !ok:
				printlnFn("Unknown command:", name)
			case cmd.auth && !a.isLoggedIn():
				printlnFn("Please login first")
			default:
				if err := cmd.run(ctx, args); err != nil {
					printlnFn("Error:", err)
				}
			}
		}

		if err != nil {
			return
		}
	}
}
