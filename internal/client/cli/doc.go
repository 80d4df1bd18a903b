// Package cli provides the interactive dashboard client.
//
// It wires configuration, the local session record, the API gateway, the
// session store and the tenant theme resolver, then runs a small REPL on
// top of them. Startup blocks until the stored session has been restored,
// so the first prompt already reflects who is signed in.
//
// Commands:
//   - login / logout
//   - whoami, plan
//   - themes, theme <id>
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
