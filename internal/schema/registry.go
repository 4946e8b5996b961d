package schema

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Registry holds the program schemas and curated error-message overrides.
// It is owned by the caller and passed to the components that need it; there
// is no process-wide singleton. Load everything at startup: lookups after
// that are read-only and safe for concurrent use.
type Registry struct {
	idls      map[string]*ProgramIDL
	overrides map[string]map[uint32]string
	logger    *logrus.Logger
}

func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		idls:      make(map[string]*ProgramIDL),
		overrides: make(map[string]map[uint32]string),
		logger:    logger,
	}
}

// Load parses src and stores the schema under programID, overwriting any
// prior schema for the same program.
func (r *Registry) Load(programID string, src []byte) error {
	idl, err := ParseIDL(src)
	if err != nil {
		return err
	}
	r.idls[programID] = idl
	r.logger.WithFields(logrus.Fields{
		"program":      programID,
		"instructions": len(idl.Instructions),
		"errors":       len(idl.Errors),
	}).Debug("loaded program schema")
	return nil
}

// LoadFile loads a schema from an IDL file on disk.
func (r *Registry) LoadFile(programID, path string) error {
	idl, err := ParseIDLFile(path)
	if err != nil {
		return err
	}
	r.idls[programID] = idl
	return nil
}

// LookupInstruction returns the schema entry for (programID, name).
func (r *Registry) LookupInstruction(programID, name string) (*Instruction, error) {
	idl, ok := r.idls[programID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	for i := range idl.Instructions {
		if idl.Instructions[i].Name == name {
			return &idl.Instructions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in program %s", ErrInstructionNotFound, name, programID)
}

// Discriminator returns the 8-byte discriminator for (programID, name).
func (r *Registry) Discriminator(programID, name string) ([DiscriminatorLen]byte, error) {
	inst, err := r.LookupInstruction(programID, name)
	if err != nil {
		return [DiscriminatorLen]byte{}, err
	}
	return inst.Discriminator, nil
}

// Programs lists the loaded program identifiers.
func (r *Registry) Programs() []string {
	out := make([]string, 0, len(r.idls))
	for id := range r.idls {
		out = append(out, id)
	}
	return out
}

// RegisterErrorOverrides installs a curated per-program error table. Generated
// clients ship hand-maintained messages that take precedence over the
// schema's generic table.
func (r *Registry) RegisterErrorOverrides(programID string, messages map[uint32]string) {
	if len(messages) == 0 {
		return
	}
	table, ok := r.overrides[programID]
	if !ok {
		table = make(map[uint32]string, len(messages))
		r.overrides[programID] = table
	}
	for code, msg := range messages {
		table[code] = msg
	}
}

// DecodeError maps a numeric program error code to a human-readable message.
// The per-program override table wins; the schema's generic error table is
// the fallback. Returns false if the code is absent from both.
func (r *Registry) DecodeError(programID string, code uint32) (string, bool) {
	if table, ok := r.overrides[programID]; ok {
		if msg, ok := table[code]; ok {
			return msg, true
		}
	}
	if idl, ok := r.idls[programID]; ok {
		for _, e := range idl.Errors {
			if e.Code == code {
				return fmt.Sprintf("%s: %s", e.Name, e.Msg), true
			}
		}
	}
	return "", false
}
