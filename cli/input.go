package cli

import (
	"bufio"
	"fmt"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"io"
	"os"
	"strings"
)

// readPassword reads without echo. Tests replace it.
var readPassword = term.ReadPassword

// prompt prints label and reads one trimmed line
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrapf(err, "reading %s failed", strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "reading password failed")
	}
	return string(pw), nil
}
