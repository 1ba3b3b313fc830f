package shell

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode"

	apperrors "fex/internal/errors"
)

const maxTokenSize = 1 << 20

// tokenReader yields whitespace-separated tokens regardless of line
// breaks, so a command and its arguments may span lines. There is no
// quoting.
type tokenReader struct {
	sc         *bufio.Scanner
	limit      int
	overlong   bool // the token just returned was cut at limit
	discarding bool // still skipping the tail of an overlong token
}

func newTokenReader(r io.Reader) *tokenReader {
	return newTokenReaderSize(r, maxTokenSize)
}

func newTokenReaderSize(r io.Reader, limit int) *tokenReader {
	t := &tokenReader{limit: limit}
	t.sc = bufio.NewScanner(r)
	t.sc.Buffer(make([]byte, 0, min(4096, limit)), limit)
	t.sc.Split(t.split)
	return t
}

// split is bufio.ScanWords, except that a token filling the whole buffer
// is dropped up to the next whitespace instead of stopping the scanner.
func (t *tokenReader) split(data []byte, atEOF bool) (int, []byte, error) {
	if t.discarding {
		i := bytes.IndexFunc(data, unicode.IsSpace)
		if i < 0 {
			if atEOF {
				t.discarding = false
			}
			return len(data), nil, nil
		}
		t.discarding = false
		return i, nil, nil
	}

	advance, token, err := bufio.ScanWords(data, atEOF)
	if advance == 0 && token == nil && err == nil && !atEOF && len(data) >= t.limit {
		t.discarding = true
		t.overlong = true
		return len(data), []byte{}, nil
	}
	return advance, token, err
}

// Next returns the next token. It returns io.EOF at end of input and an
// invalid-argument error for a token longer than the limit, after which
// reading can go on.
func (t *tokenReader) Next() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	if t.overlong {
		t.overlong = false
		return "", apperrors.NewInvalidArgumentError("read", "",
			fmt.Sprintf("token longer than %d bytes", t.limit), nil)
	}
	return t.sc.Text(), nil
}
