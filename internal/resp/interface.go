package resp

type Reader interface {
	Read() (Value, error)
}

type Writer interface {
	Write(v Value) error
	Flush() error
}

var (
	_ Reader = (*Decoder)(nil)
	_ Writer = (*Encoder)(nil)
)
