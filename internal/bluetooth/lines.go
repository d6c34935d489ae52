package bluetooth

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// maxLineBytes bounds one logical line of utility output. A longer line is
// dropped whole and reading resumes at the next line break.
const maxLineBytes = 1024 * 1024

// lineSplitter ends a line at "\n", "\r" or "\r\n". The control utility
// redraws its prompt with a bare carriage return, so records on one
// physical line are still separate lines here.
type lineSplitter struct {
	max        int
	discarding bool
	dropped    int
}

func newLineScanner(r io.Reader) (*bufio.Scanner, *lineSplitter) {
	ls := &lineSplitter{max: maxLineBytes}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), ls.max)
	sc.Split(ls.split)
	return sc, ls
}

func (l *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		end := i + 1
		if data[i] == '\r' {
			switch {
			case i+1 < len(data):
				if data[i+1] == '\n' {
					end = i + 2
				}
			case !atEOF && len(data) < l.max:
				// A "\n" may follow in the next read
				return 0, nil, nil
			}
		}
		if l.discarding {
			l.discarding = false
			return end, nil, nil
		}
		return end, data[:i], nil
	}

	if atEOF {
		if l.discarding {
			l.discarding = false
			return len(data), nil, nil
		}
		return len(data), data, nil
	}
	if len(data) >= l.max {
		if !l.discarding {
			l.dropped++
		}
		l.discarding = true
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// splitLines breaks text into logical lines.
func splitLines(text string) []string {
	sc, _ := newLineScanner(strings.NewReader(text))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
