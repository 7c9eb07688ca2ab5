package vm

import (
	"bufio"
	"io"
)

// Console is the pluggable character sink/source consumed by OUT and IN.
// Implementations are narrow and synchronous: WriteChar emits exactly
// one character byte, ReadChar blocks for exactly one. The reference
// implementation, StdConsole, line-buffers input at the source the way a
// terminal does; tests typically use the byte-slice backed BufferConsole
// instead.
type Console interface {
	WriteChar(c byte) error
	ReadChar() (byte, error)
}

// StdConsole is the reference console bridge: output is buffered and
// flushed on every newline (and by Flush, which the driver calls after
// a fault so a partial line is never lost); input is read one line at a
// time from the source and drained one byte at a time, including the
// terminating newline, exactly as §4.4 and §9's "console coroutine
// flavour" describe.
type StdConsole struct {
	out *bufio.Writer
	in  *bufio.Reader

	// OnPrompt, if non-nil, is called once before each line read from
	// in, letting the driver print an interactive "> " prompt only when
	// stdin is a real terminal (see cmd/synacore).
	OnPrompt func()

	pending []byte // unread bytes of the current input line
}

// NewStdConsole builds a console bridge over the given writer/reader,
// typically os.Stdout and os.Stdin.
func NewStdConsole(w io.Writer, r io.Reader) *StdConsole {
	return &StdConsole{
		out: bufio.NewWriter(w),
		in:  bufio.NewReader(r),
	}
}

// WriteChar implements Console.WriteChar. Codes outside printable ASCII
// are passed through unchanged per §9's open question; the terminal is
// left to interpret them as it will.
func (c *StdConsole) WriteChar(b byte) error {
	if err := c.out.WriteByte(b); err != nil {
		return err
	}
	if b == '\n' {
		return c.out.Flush()
	}
	return nil
}

// Flush forces any buffered output out, regardless of whether the last
// byte written was a newline. The driver calls this before reporting a
// fault so the VM's last partial line of output is never swallowed.
func (c *StdConsole) Flush() error {
	return c.out.Flush()
}

// ReadChar implements Console.ReadChar. When the buffered line is
// exhausted it reads another whole line from the source and yields its
// bytes (including the trailing '\n') one at a time.
func (c *StdConsole) ReadChar() (byte, error) {
	if len(c.pending) == 0 {
		if c.OnPrompt != nil {
			c.OnPrompt()
		}
		line, err := c.in.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return 0, err
		}
		c.pending = line
	}
	b := c.pending[0]
	c.pending = c.pending[1:]
	return b, nil
}

// BufferConsole is a Console backed by in-memory byte slices, for tests
// and for snapshot round-trip checks where no real terminal is involved.
type BufferConsole struct {
	Input  []byte // consumed front-to-back by ReadChar
	Output []byte // appended to by WriteChar
}

// WriteChar implements Console.WriteChar.
func (c *BufferConsole) WriteChar(b byte) error {
	c.Output = append(c.Output, b)
	return nil
}

// ReadChar implements Console.ReadChar. It returns io.EOF once Input is
// exhausted.
func (c *BufferConsole) ReadChar() (byte, error) {
	if len(c.Input) == 0 {
		return 0, io.EOF
	}
	b := c.Input[0]
	c.Input = c.Input[1:]
	return b, nil
}
