package domain

import (
	"fmt"

	"github.com/notargets/gofv/types"
)

type Location uint8

const (
	Solution Location = iota
	Auxiliary
)

func (l Location) String() string {
	switch l {
	case Solution:
		return "SOL"
	case Auxiliary:
		return "AUX"
	}
	return fmt.Sprintf("Location(%d)", uint8(l))
}

type FieldType uint8

const (
	FVM FieldType = iota
)

// FieldDescription declares a named slot of per cell values
type FieldDescription struct {
	Name       string
	Prefix     string
	Components []string // empty for a scalar field
	Location   Location
	Type       FieldType
}

func (fd FieldDescription) NumComponents() int {
	if len(fd.Components) == 0 {
		return 1
	}
	return len(fd.Components)
}

func (fd FieldDescription) ComponentName(i int) string {
	if len(fd.Components) == 0 {
		return fd.Name
	}
	return fd.Components[i]
}

type Field struct {
	FieldDescription
	ID int
}

type Registry struct {
	fields []*Field
	byName map[string]*Field
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Field)}
}

func (r *Registry) Register(descs ...FieldDescription) error {
	for _, fd := range descs {
		if len(fd.Name) == 0 {
			return types.NewConfigurationError("field description without a name")
		}
		if _, exists := r.byName[fd.Name]; exists {
			return types.NewConfigurationError("field %q registered twice", fd.Name)
		}
		f := &Field{FieldDescription: fd, ID: len(r.fields)}
		r.fields = append(r.fields, f)
		r.byName[fd.Name] = f
	}
	return nil
}

func (r *Registry) Field(name string) (f *Field, err error) {
	var ok bool
	if f, ok = r.byName[name]; !ok {
		err = types.NewConfigurationError("unknown field %q", name)
	}
	return
}

func (r *Registry) HasField(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Fields lists the fields at a location in registration order
func (r *Registry) Fields(loc Location) (fields []*Field) {
	for _, f := range r.fields {
		if f.Location == loc {
			fields = append(fields, f)
		}
	}
	return
}

func (r *Registry) All() []*Field { return r.fields }
