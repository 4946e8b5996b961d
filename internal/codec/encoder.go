package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/gagliardetto/solana-go"
)

// Encoder turns a named argument bag into the exact wire byte layout for a
// schema-declared instruction: discriminator first, then each argument
// serialized little-endian in schema order.
type Encoder struct {
	registry *schema.Registry
}

func NewEncoder(registry *schema.Registry) *Encoder {
	return &Encoder{registry: registry}
}

// Encode builds the instruction data bytes for (programID, instruction).
// Every schema-declared argument must be present in args or encoding fails
// with ErrMissingArgument; arguments in the bag that the schema does not
// declare are ignored.
func (e *Encoder) Encode(programID, instruction string, args map[string]any) ([]byte, error) {
	inst, err := e.registry.LookupInstruction(programID, instruction)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, schema.DiscriminatorLen+16*len(inst.Args))
	data = append(data, inst.Discriminator[:]...)

	for _, arg := range inst.Args {
		value, ok := args[arg.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", schema.ErrMissingArgument, arg.Name)
		}
		encoded, err := encodeValue(value, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg.Name, err)
		}
		data = append(data, encoded...)
	}

	return data, nil
}

// encodeValue serializes one argument by its schema type tag. All numerics
// are little-endian; strings are 4-byte LE length-prefixed UTF-8; pubkeys are
// parsed from base58 text and written as their raw 32 bytes.
func encodeValue(value any, field schema.Field) ([]byte, error) {
	switch field.Type {
	case schema.TypeU8:
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		return []byte{byte(v)}, nil
	case schema.TypeU16:
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b, nil
	case schema.TypeU32:
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return b, nil
	case schema.TypeU64:
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v)
		return b, nil
	case schema.TypeI8:
		v, err := asInt64(value)
		if err != nil {
			return nil, err
		}
		return []byte{byte(int8(v))}, nil
	case schema.TypeI16:
		v, err := asInt64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
		return b, nil
	case schema.TypeI32:
		v, err := asInt64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		return b, nil
	case schema.TypeI64:
		v, err := asInt64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v))
		return b, nil
	case schema.TypeF32:
		v, err := asFloat64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		return b, nil
	case schema.TypeF64:
		v, err := asFloat64(value)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		return b, nil
	case schema.TypeBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case schema.TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		b := make([]byte, 4, 4+len(s))
		binary.LittleEndian.PutUint32(b, uint32(len(s)))
		return append(b, s...), nil
	case schema.TypePubkey:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected base58 string, got %T", schema.ErrInvalidAddress, value)
		}
		pk, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", schema.ErrInvalidAddress, s)
		}
		return pk.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", schema.ErrUnsupportedType, field.Tag)
	}
}

// asUint64 coerces the value representations an argument bag may carry
// (native ints, JSON-decoded float64/json.Number, decimal strings).
func asUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("expected unsigned integer, got %d", v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("expected unsigned integer, got %d", v)
		}
		return uint64(v), nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("expected unsigned integer, got %v", v)
		}
		return uint64(v), nil
	case json.Number:
		return strconv.ParseUint(v.String(), 10, 64)
	case string:
		return strconv.ParseUint(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected unsigned integer, got %T", value)
	}
}

func asInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer overflow: %d", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int64(v), nil
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func asFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("expected float, got %T", value)
	}
}
