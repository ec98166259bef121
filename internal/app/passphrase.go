package app

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is swapped out in tests so no terminal is needed.
var readPassword = term.ReadPassword

// isTerminal reports whether fd is an interactive terminal.
var isTerminal = term.IsTerminal

// PromptPassphrase returns STEADFAST_PASSPHRASE when set, and otherwise asks
// on the terminal without echo. Without a terminal it returns an error so
// unattended runs fail instead of hanging.
func PromptPassphrase(prompt string, w io.Writer) (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("passphrase required: set %s or run interactively", EnvPassphrase)
	}

	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pw), nil
}
