package schema

import "fmt"

// FieldType is the closed set of argument types an instruction schema may
// declare. Encoding dispatches on this tag exhaustively, so adding a type is
// a compile-time-checked change rather than a stringly-typed one.
type FieldType int

const (
	TypeInvalid FieldType = iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeBool
	TypeString
	TypePubkey
)

// fieldTypeTags maps IDL type tags to FieldType values.
var fieldTypeTags = map[string]FieldType{
	"u8":     TypeU8,
	"u16":    TypeU16,
	"u32":    TypeU32,
	"u64":    TypeU64,
	"i8":     TypeI8,
	"i16":    TypeI16,
	"i32":    TypeI32,
	"i64":    TypeI64,
	"f32":    TypeF32,
	"f64":    TypeF64,
	"bool":   TypeBool,
	"string": TypeString,
	"pubkey": TypePubkey,
}

// ParseFieldType resolves an IDL type tag. Unknown tags are preserved as
// TypeInvalid with the original tag in the error so the codec can fail with
// ErrUnsupportedType at encode time.
func ParseFieldType(tag string) (FieldType, error) {
	if t, ok := fieldTypeTags[tag]; ok {
		return t, nil
	}
	return TypeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedType, tag)
}

func (t FieldType) String() string {
	for tag, ft := range fieldTypeTags {
		if ft == t {
			return tag
		}
	}
	return "invalid"
}
