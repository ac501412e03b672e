package resp

import (
	"bytes"
)

// SerializeCommand uses a standard Encoder to convert the command to bytes,
// in the form a client sends it
func SerializeCommand(cmd string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	elements := make([]Value, 1+len(args))

	elements[0] = MakeBulkString(cmd)

	for i, arg := range args {
		elements[i+1] = MakeBulkString(arg)
	}

	root := MakeArray(elements)

	if err := enc.Write(root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
