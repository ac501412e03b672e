package resp_test

import (
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/eternalApril/moonmock/internal/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{
			name:    "Valid positive",
			input:   ":1000\r\n",
			want:    1000,
			wantErr: nil,
		},
		{
			name:    "Valid positive with +",
			input:   ":+1230\r\n",
			want:    1230,
			wantErr: nil,
		},
		{
			name:    "Valid negative",
			input:   ":-15\r\n",
			want:    -15,
			wantErr: nil,
		},
		{
			name:    "Valid zero",
			input:   ":0\r\n",
			want:    0,
			wantErr: nil,
		},
		{
			name:    "Invalid ending",
			input:   ":1000\n",
			want:    0,
			wantErr: resp.ErrInvalidEnding,
		},
		{
			name:    "Empty",
			input:   ":\r\n",
			want:    0,
			wantErr: resp.ErrInvalidLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resp.NewDecoder(strings.NewReader(tt.input))

			val, err := r.Read()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Read() expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("Read() unexpected error %v", err)
			}

			if val.Type != resp.TypeInteger {
				t.Errorf("Read() type = %v, want %v", val.Type, resp.TypeInteger)
			}

			if val.Integer != tt.want {
				t.Errorf("Read() num = %v, want %v", val.Integer, tt.want)
			}
		})
	}
}

func TestReadValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  resp.Value
	}{
		{
			name:  "Simple string",
			input: "+OK\r\n",
			want:  resp.MakeSimpleString("OK"),
		},
		{
			name:  "Error",
			input: "-ERR boom\r\n",
			want:  resp.MakeError("ERR boom"),
		},
		{
			name:  "Bulk string",
			input: "$5\r\nhello\r\n",
			want:  resp.MakeBulkString("hello"),
		},
		{
			name:  "Bulk string with CRLF inside",
			input: "$4\r\na\r\nb\r\n",
			want:  resp.MakeBulkString("a\r\nb"),
		},
		{
			name:  "Empty bulk string",
			input: "$0\r\n\r\n",
			want:  resp.MakeBulkString(""),
		},
		{
			name:  "Nil bulk string",
			input: "$-1\r\n",
			want:  resp.MakeNilBulkString(),
		},
		{
			name:  "Nil array",
			input: "*-1\r\n",
			want:  resp.MakeNilArray(),
		},
		{
			name:  "Command",
			input: "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n",
			want:  resp.MakeStringArray([]string{"SET", "key", "value"}),
		},
		{
			name:  "Nested",
			input: "*2\r\n:1\r\n*1\r\n+inner\r\n",
			want: resp.MakeArray([]resp.Value{
				resp.MakeInteger(1),
				resp.MakeArray([]resp.Value{resp.MakeSimpleString("inner")}),
			}),
		},
		{
			name:  "Inline",
			input: "PING  hello\r\n",
			want:  resp.MakeStringArray([]string{"PING", "hello"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resp.NewDecoder(strings.NewReader(tt.input)).Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"Bulk missing ending", "$3\r\nabcd\r\n", resp.ErrInvalidEnding},
		{"Bulk negative length", "$-2\r\n", resp.ErrInvalidLength},
		{"Array negative length", "*-5\r\n", resp.ErrInvalidLength},
		{"Truncated bulk", "$10\r\nabc", io.ErrUnexpectedEOF},
		{"Truncated array", "*2\r\n$1\r\na\r\n", io.EOF},
		{"Array longer than input", "*1048576\r\n$1\r\na\r\n", io.EOF},
		{"Array over limit", "*1048577\r\n", resp.ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resp.NewDecoder(strings.NewReader(tt.input)).Read()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadArrayHeaderDoesNotPreallocate(t *testing.T) {
	input := strings.Repeat("*1048576\r\n", 4)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	_, err := resp.NewDecoder(strings.NewReader(input)).Read()
	require.ErrorIs(t, err, io.EOF)

	runtime.ReadMemStats(&after)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestReadPipelined(t *testing.T) {
	first, err := resp.SerializeCommand("SET", "k", "v")
	require.NoError(t, err)
	second, err := resp.SerializeCommand("GET", "k")
	require.NoError(t, err)

	dec := resp.NewDecoder(strings.NewReader(string(first) + string(second)))

	v, err := dec.Read()
	require.NoError(t, err)
	assert.Equal(t, resp.MakeStringArray([]string{"SET", "k", "v"}), v)
	assert.Equal(t, len(second), dec.Buffered())

	v, err = dec.Read()
	require.NoError(t, err)
	assert.Equal(t, resp.MakeStringArray([]string{"GET", "k"}), v)
	assert.Zero(t, dec.Buffered())

	_, err = dec.Read()
	assert.ErrorIs(t, err, io.EOF)
}
