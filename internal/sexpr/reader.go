package sexpr

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Reader yields one top-level form at a time from a source stream, the way a
// load pass consumes a file: read a form, hand it to the pipeline, repeat.
type Reader struct {
	src  *bufio.Reader
	name string // source name for error positions
	line int
}

// NewReader creates a Reader over src. name labels the source in errors.
func NewReader(src io.Reader, name string) *Reader {
	return &Reader{
		src:  bufio.NewReader(src),
		name: name,
		line: 1,
	}
}

// ReadForm reads the next top-level form. It returns io.EOF when the stream
// is exhausted at a form boundary.
func (r *Reader) ReadForm() (Value, error) {
	if err := r.skipSpace(); err != nil {
		if err == io.EOF {
			return Value{}, io.EOF
		}
		return Value{}, err
	}
	return r.readValue()
}

func (r *Reader) readValue() (Value, error) {
	c, err := r.peek()
	if err != nil {
		return Value{}, r.errorf("unexpected end of input")
	}

	switch {
	case c == '(':
		return r.readList()
	case c == ')':
		return Value{}, r.errorf("unbalanced ')'")
	case c == '"':
		return r.readString()
	case c == '\'':
		// 'x is sugar for (quote x)
		_, _ = r.src.ReadByte()
		if err := r.skipSpace(); err != nil {
			return Value{}, r.errorf("unterminated quote")
		}
		quoted, err := r.readValue()
		if err != nil {
			return Value{}, err
		}
		return List(Symbol("quote"), quoted), nil
	default:
		return r.readAtom()
	}
}

func (r *Reader) readList() (Value, error) {
	_, _ = r.src.ReadByte() // consume '('
	cells := make([]Value, 0, 4)
	for {
		if err := r.skipSpace(); err != nil {
			return Value{}, r.errorf("unterminated list")
		}
		c, err := r.peek()
		if err != nil {
			return Value{}, r.errorf("unterminated list")
		}
		if c == ')' {
			_, _ = r.src.ReadByte()
			return Value{Type: TList, Cells: cells}, nil
		}
		v, err := r.readValue()
		if err != nil {
			return Value{}, err
		}
		cells = append(cells, v)
	}
}

func (r *Reader) readString() (Value, error) {
	_, _ = r.src.ReadByte() // consume opening quote
	var b strings.Builder
	for {
		c, err := r.src.ReadByte()
		if err != nil {
			return Value{}, r.errorf("unterminated string literal")
		}
		switch c {
		case '"':
			return String(b.String()), nil
		case '\\':
			esc, err := r.src.ReadByte()
			if err != nil {
				return Value{}, r.errorf("unterminated string escape")
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(esc)
			default:
				return Value{}, r.errorf("unknown string escape %q", esc)
			}
		case '\n':
			r.line++
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}

func (r *Reader) readAtom() (Value, error) {
	var b strings.Builder
	for {
		c, err := r.peek()
		if err != nil || isDelimiter(c) {
			break
		}
		_, _ = r.src.ReadByte()
		b.WriteByte(c)
	}
	tok := b.String()
	if tok == "" {
		return Value{}, r.errorf("empty token")
	}
	switch {
	case tok[0] == ':':
		return Keyword(tok), nil
	case isNumberLiteral(tok):
		return Number(tok), nil
	default:
		return Symbol(tok), nil
	}
}

// skipSpace consumes whitespace and ; line comments.
func (r *Reader) skipSpace() error {
	for {
		c, err := r.src.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case c == '\n':
			r.line++
		case c == ';':
			for {
				c, err = r.src.ReadByte()
				if err != nil {
					return err
				}
				if c == '\n' {
					r.line++
					break
				}
			}
		case unicode.IsSpace(rune(c)):
			// keep scanning
		default:
			return r.src.UnreadByte()
		}
	}
}

func (r *Reader) peek() (byte, error) {
	b, err := r.src.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", r.name, r.line, fmt.Sprintf(format, args...))
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '"' || c == ';' || unicode.IsSpace(rune(c))
}

func isNumberLiteral(tok string) bool {
	start := 0
	if tok[0] == '-' || tok[0] == '+' {
		if len(tok) == 1 {
			return false
		}
		start = 1
	}
	digits := false
	for i := start; i < len(tok); i++ {
		switch {
		case tok[i] >= '0' && tok[i] <= '9':
			digits = true
		case tok[i] == '.':
			// at most one dot, checked loosely; "1.2.3" reads as a symbol
			if strings.Count(tok, ".") > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits
}
