// Package prompt implements the interactive confirmation protocol. The
// gate talks to the controlling terminal directly; stdin and stdout
// stay reserved for the host envelope and diagnostics.
package prompt

import (
	"bufio"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// DefaultTimeout is the inactivity deadline after which a prompt denies.
const DefaultTimeout = 30 * time.Second

// Prompter asks the user to confirm a deletion.
type Prompter interface {
	// Confirm writes message to the terminal and reports whether the
	// user affirmed. No terminal, timeout, and everything that is not
	// an explicit yes all deny.
	Confirm(message string) bool
}

// TTY prompts on the controlling terminal with an inactivity deadline.
type TTY struct {
	// Path defaults to /dev/tty.
	Path string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

// Confirm implements Prompter.
func (t *TTY) Confirm(message string) bool {
	path := t.Path
	if path == "" {
		path = "/dev/tty"
	}
	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	defer f.Close()
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}

	if _, err := f.WriteString(message); err != nil {
		return false
	}

	// The reader goroutine may outlive a timed-out prompt; the process
	// is short-lived and exits right after the decision.
	replies := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(f).ReadString('\n')
		replies <- line
	}()

	select {
	case line := <-replies:
		return Affirmative(line)
	case <-time.After(timeout):
		return false
	}
}

// Affirmative reports whether the reply's first non-whitespace character
// is y or Y. Everything else, including empty input, denies.
func Affirmative(line string) bool {
	s := strings.TrimSpace(line)
	return s != "" && (s[0] == 'y' || s[0] == 'Y')
}
