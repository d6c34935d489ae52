package bluetooth

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"newlines", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare carriage returns", "a\rb\n\rc", []string{"a", "b", "", "c"}},
		{"blank line kept", "a\n\n", []string{"a", ""}},
		{"trailing carriage return", "a\r", []string{"a"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitLines(tt.text))
		})
	}
}

func TestLineScannerShortReads(t *testing.T) {
	t.Parallel()

	// One byte per read puts every "\r" at the end of the buffer
	sc, _ := newLineScanner(iotest.OneByteReader(strings.NewReader("one\r\ntwo\rthree\r\n")))
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	assert.NoError(t, sc.Err())
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestLineScannerDropsOverlongLine(t *testing.T) {
	t.Parallel()

	text := "first\n" + strings.Repeat("x", maxLineBytes+10) + "\rlast\n"
	sc, ls := newLineScanner(strings.NewReader(text))
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	assert.NoError(t, sc.Err())
	assert.Equal(t, []string{"first", "last"}, got)
	assert.Equal(t, 1, ls.dropped)
}
