package storage

type DataType byte

const (
	TypeString DataType = iota + 1
	TypeList
	TypeSet
	TypeHash
	TypeZSet
)

// String returns the name reported by the TYPE command
func (t DataType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeHash:
		return "hash"
	case TypeZSet:
		return "zset"
	}
	return "none"
}

// Entity generic container for value.
// Value holds []byte, []string, map[string]struct{}, map[string]string or *ZSet depending on Type
type Entity struct {
	Type  DataType
	Value interface{}
}

// NewString wraps a string value
func NewString(b []byte) *Entity {
	return &Entity{Type: TypeString, Value: b}
}

// NewList wraps a list value, head first
func NewList(items []string) *Entity {
	return &Entity{Type: TypeList, Value: items}
}

// NewSet creates an empty set value
func NewSet() *Entity {
	return &Entity{Type: TypeSet, Value: make(map[string]struct{})}
}

// NewHash creates an empty hash value
func NewHash() *Entity {
	return &Entity{Type: TypeHash, Value: make(map[string]string)}
}

// NewZSet creates an empty sorted set value
func NewZSet() *Entity {
	return &Entity{Type: TypeZSet, Value: NewSortedSet()}
}

func (e *Entity) Bytes() []byte {
	b, _ := e.Value.([]byte)
	return b
}

func (e *Entity) List() []string {
	l, _ := e.Value.([]string)
	return l
}

func (e *Entity) Set() map[string]struct{} {
	s, _ := e.Value.(map[string]struct{})
	return s
}

func (e *Entity) Hash() map[string]string {
	h, _ := e.Value.(map[string]string)
	return h
}

func (e *Entity) ZSet() *ZSet {
	z, _ := e.Value.(*ZSet)
	return z
}

// Empty reports whether a container value holds no elements.
// Strings are never empty in this sense
func (e *Entity) Empty() bool {
	switch e.Type {
	case TypeList:
		return len(e.List()) == 0
	case TypeSet:
		return len(e.Set()) == 0
	case TypeHash:
		return len(e.Hash()) == 0
	case TypeZSet:
		return e.ZSet().Len() == 0
	}
	return false
}
