// Package logging wraps github.com/sirupsen/logrus with a formatter that
// renders the engine's bracketed stdout contract ([cfg], [gear], [Bitset],
// [seg NNNNN], [window], [TOTAL]) as the message prefix, instead of
// logrus's default "level=info msg=..." shape, while still rendering any
// structured fields a caller attaches (the SeamAnomaly diagnostic does) so
// a log aggregator downstream can parse them.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// bracketFormatter renders `[prefix] message key=value ...`.
type bracketFormatter struct{}

func (bracketFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, e.Data[k])
		}
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// New builds a logrus.Logger that writes to out, using bracketFormatter.
// level controls the minimum reported severity.
func New(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(bracketFormatter{})
	l.SetLevel(level)
	return l
}

// Prefixed wraps tag in the engine's bracketed-tag convention, e.g.
// Prefixed(fmt.Sprintf("seg %05d", 13)) -> "[seg 00013]".
func Prefixed(tag string) string {
	return "[" + tag + "]"
}
