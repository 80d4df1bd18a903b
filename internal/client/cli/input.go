package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests so they never touch the terminal.
var readPassword = term.ReadPassword

// stdinFd is the descriptor readPassword reads from.
var stdinFd = func() int { return int(os.Stdin.Fd()) }

// GetSimpleText writes "label: " to w and reads one trimmed line. A final
// line without a newline is still returned.
func GetSimpleText(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword writes "label: " to w and reads a secret without echo.
// Callers wipe the result when done.
func GetPassword(label string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return nil, errors.New("password is required")
	}
	return pw, nil
}

func wipe(b []byte) {
	clear(b)
}
