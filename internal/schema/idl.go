package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// DiscriminatorLen is the fixed byte width of an instruction discriminator.
const DiscriminatorLen = 8

// Account is a schema-declared account requirement for an instruction.
type Account struct {
	Name     string `json:"name"`
	Writable bool   `json:"writable"`
	Signer   bool   `json:"signer"`
	Optional bool   `json:"optional"`
}

// Field is a schema-declared instruction argument. Tag keeps the raw IDL type
// string so unsupported tags surface at encode time, not load time.
type Field struct {
	Name string
	Type FieldType
	Tag  string
}

// Instruction describes one instruction of a program schema: its name, 8-byte
// discriminator, ordered argument list and ordered account requirements.
type Instruction struct {
	Name          string
	Discriminator [DiscriminatorLen]byte
	Accounts      []Account
	Args          []Field
}

// ErrorEntry is a generic (code, name, msg) row from the schema's error table.
type ErrorEntry struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// ProgramIDL is a parsed program schema.
type ProgramIDL struct {
	Address      string
	Instructions []Instruction
	Errors       []ErrorEntry
}

// rawIDL mirrors the on-disk JSON shape of an IDL file.
type rawIDL struct {
	Address      string `json:"address"`
	Instructions []struct {
		Name string `json:"name"`
		// JSON arrays of numbers do not unmarshal into []byte, so take
		// ints and range-check below.
		Discriminator []int     `json:"discriminator"`
		Accounts      []Account `json:"accounts"`
		Args          []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"args"`
	} `json:"instructions"`
	Errors []ErrorEntry `json:"errors"`
}

// ParseIDL parses an IDL document. Malformed JSON, a missing address, or a
// discriminator that is not exactly 8 bytes all fail with ErrParse.
func ParseIDL(src []byte) (*ProgramIDL, error) {
	var raw rawIDL
	if err := json.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Address == "" {
		return nil, fmt.Errorf("%w: missing program address", ErrParse)
	}

	idl := &ProgramIDL{
		Address:      raw.Address,
		Instructions: make([]Instruction, 0, len(raw.Instructions)),
		Errors:       raw.Errors,
	}

	for _, ri := range raw.Instructions {
		if ri.Name == "" {
			return nil, fmt.Errorf("%w: instruction with empty name", ErrParse)
		}
		if len(ri.Discriminator) != DiscriminatorLen {
			return nil, fmt.Errorf("%w: instruction %q: discriminator must be %d bytes, got %d",
				ErrParse, ri.Name, DiscriminatorLen, len(ri.Discriminator))
		}

		inst := Instruction{
			Name:     ri.Name,
			Accounts: ri.Accounts,
			Args:     make([]Field, 0, len(ri.Args)),
		}
		for i, b := range ri.Discriminator {
			if b < 0 || b > 255 {
				return nil, fmt.Errorf("%w: instruction %q: discriminator byte %d out of range: %d",
					ErrParse, ri.Name, i, b)
			}
			inst.Discriminator[i] = byte(b)
		}

		for _, ra := range ri.Args {
			// Unknown tags parse to TypeInvalid on purpose; the codec
			// rejects them with ErrUnsupportedType when encoding.
			ft, _ := ParseFieldType(ra.Type)
			inst.Args = append(inst.Args, Field{Name: ra.Name, Type: ft, Tag: ra.Type})
		}

		idl.Instructions = append(idl.Instructions, inst)
	}

	return idl, nil
}

// ParseIDLFile reads and parses an IDL file from disk.
func ParseIDLFile(path string) (*ProgramIDL, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrParse, path, err)
	}
	return ParseIDL(content)
}
