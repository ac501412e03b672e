package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

const (
	maxBulkLength  = 512 << 20
	maxArrayLength = 1 << 20

	initialArrayCap = 64
)

var (
	ErrInvalidEnding = errors.New("invalid line ending")
	ErrInvalidLength = errors.New("invalid length")
	ErrUnexpected    = errors.New("unexpected type")
)

// Decoder reads RESP2 values from a buffered stream. Lines that do not start
// with a type byte are parsed as inline commands
type Decoder struct {
	rd *bufio.Reader
}

// NewDecoder wraps rd with a buffered reader
func NewDecoder(rd io.Reader) *Decoder {
	return &Decoder{rd: bufio.NewReader(rd)}
}

// Buffered returns the number of bytes already read from the stream but not decoded yet
func (d *Decoder) Buffered() int {
	return d.rd.Buffered()
}

// Read decodes the next value
func (d *Decoder) Read() (Value, error) {
	prefix, err := d.rd.ReadByte()
	if err != nil {
		return Value{}, err
	}

	switch prefix {
	case TypeSimpleString, TypeError:
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: prefix, String: line}, nil

	case TypeInteger:
		n, err := d.readInteger()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeInteger, Integer: n}, nil

	case TypeBulkString:
		return d.readBulkString()

	case TypeArray:
		return d.readArray()
	}

	if err := d.rd.UnreadByte(); err != nil {
		return Value{}, err
	}
	return d.readInline()
}

// readLine reads up to CRLF and returns the line without it
func (d *Decoder) readLine() ([]byte, error) {
	line, err := d.rd.ReadBytes('\n')
	if err != nil {
		return nil, err
	}

	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, ErrInvalidEnding
	}

	return line[:len(line)-2], nil
}

func (d *Decoder) readInteger() (int64, error) {
	line, err := d.readLine()
	if err != nil {
		return 0, err
	}

	// Command with integer cant be empty
	if len(line) == 0 {
		return 0, ErrInvalidLength
	}

	return strconv.ParseInt(string(line), 10, 64)
}

func (d *Decoder) readBulkString() (Value, error) {
	n, err := d.readInteger()
	if err != nil {
		return Value{}, err
	}

	if n == -1 {
		return MakeNilBulkString(), nil
	}
	if n < 0 || n > maxBulkLength {
		return Value{}, ErrInvalidLength
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(d.rd, buf); err != nil {
		return Value{}, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, ErrInvalidEnding
	}

	return Value{Type: TypeBulkString, String: buf[:n]}, nil
}

func (d *Decoder) readArray() (Value, error) {
	n, err := d.readInteger()
	if err != nil {
		return Value{}, err
	}

	if n == -1 {
		return MakeNilArray(), nil
	}
	if n < 0 || n > maxArrayLength {
		return Value{}, ErrInvalidLength
	}

	// the header alone is not trusted for the allocation size
	values := make([]Value, 0, min(n, initialArrayCap))
	for i := int64(0); i < n; i++ {
		v, err := d.Read()
		if err != nil {
			return Value{}, err
		}
		values = append(values, v)
	}

	return MakeArray(values), nil
}

// readInline parses a space separated command line such as the one telnet sends
func (d *Decoder) readInline() (Value, error) {
	line, err := d.rd.ReadBytes('\n')
	if err != nil {
		return Value{}, err
	}

	fields := bytes.Fields(line)
	values := make([]Value, len(fields))
	for i, f := range fields {
		values[i] = Value{Type: TypeBulkString, String: f}
	}

	return MakeArray(values), nil
}
