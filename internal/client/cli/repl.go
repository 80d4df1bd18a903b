package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	ShowPlan(ctx context.Context) error
	ListThemes(ctx context.Context) error
	SelectTheme(ctx context.Context, id string) error
}

var requiresLogin = map[string]bool{
	"whoami": true,
	"themes": true,
	"theme":  true,
}

// runREPL reads one command per line from scanner and dispatches it to a.
// The loop ends on EOF, on "exit" or "quit", or when ctx is cancelled.
//
//	Not logged in:
//	  - help           show available commands
//	  - login          sign in
//	  - plan           show the current plan
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - whoami         show the signed-in user
//	  - plan           show the tenant plan
//	  - themes         list tenant palettes
//	  - theme <id>     switch palette
//	  - login          sign in as someone else
//	  - logout         sign out
//	  - exit | quit    leave the program
//
// Commands listed only for signed-in users answer "Not logged in" otherwise.
// Errors returned by handlers are ignored here; handlers report their own.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(promptFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresLogin[cmd] && !a.isLoggedIn() {
			printlnFn("Not logged in")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, plan, themes, theme <id>, login, logout, exit")
			} else {
				printlnFn("Available commands: login, plan, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "plan":
			_ = a.ShowPlan(ctx)

		case "themes":
			_ = a.ListThemes(ctx)

		case "theme":
			if len(args) == 0 {
				printlnFn("Usage: theme <id>")
				continue
			}
			_ = a.SelectTheme(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
