package resp

const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

// Value is one RESP2 frame. Only the fields matching Type are meaningful
type Value struct {
	String  []byte // SimpleString, Error, BulkString
	Array   []Value
	Integer int64 // Integer
	Type    byte
	IsNull  bool // For nil BulkString and nil Array
}

// Text returns the payload of a string-like value
func (v Value) Text() string {
	return string(v.String)
}
