// Package cli provides the interactive piiquante command-line client.
//
// It wires configuration, the HTTP API client and a REPL. A background
// watcher polls the server's health endpoint and shows online/offline in
// the prompt.
//
// Commands:
//   - register / login / logout
//   - list, show <id>
//   - add: prompts for the sauce fields and an image path
//   - like <id>, dislike <id>, unvote <id>
//   - delete <id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
