package reminder

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// WriterNotifier prints reminders as single lines.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, r Reminder) error {
	line := fmt.Sprintf("%s  %d term(s) due for review", r.At.Format("2006-01-02 15:04"), r.Due)
	if len(r.Terms) > 0 {
		line += ": " + strings.Join(r.Terms, ", ")
		if extra := r.Due - len(r.Terms); extra > 0 {
			line += fmt.Sprintf(" (+%d more)", extra)
		}
	}
	_, err := fmt.Fprintln(n.W, line)
	return err
}
