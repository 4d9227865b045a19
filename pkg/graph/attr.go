// Package graph defines the dataflow graph IR: nodes, typed attribute
// values, tensor references, and the helpers the rewriting passes operate on.
package graph

// DataType is the type tag carried by node and argument attributes.
type DataType string

const (
	DTInvalid  DataType = ""
	DTBool     DataType = "bool"
	DTInt32    DataType = "int32"
	DTInt64    DataType = "int64"
	DTFloat    DataType = "float"
	DTDouble   DataType = "double"
	DTString   DataType = "string"
	DTResource DataType = "resource"
)

// Valid reports whether the type tag is a concrete, known type.
func (t DataType) Valid() bool {
	switch t {
	case DTBool, DTInt32, DTInt64, DTFloat, DTDouble, DTString, DTResource:
		return true
	}
	return false
}

// FuncRef is a function-reference attribute value: the name of a library
// function plus the attribute map used to instantiate it.
type FuncRef struct {
	Name  string                `yaml:"name" msgpack:"name"`
	Attrs map[string]*AttrValue `yaml:"attrs,omitempty" msgpack:"attrs,omitempty"`
}

// AttrValue is a typed attribute value. Exactly one field is set.
type AttrValue struct {
	Bool     *bool      `yaml:"b,omitempty" msgpack:"b,omitempty"`
	Int      *int64     `yaml:"i,omitempty" msgpack:"i,omitempty"`
	Str      *string    `yaml:"s,omitempty" msgpack:"s,omitempty"`
	Type     DataType   `yaml:"type,omitempty" msgpack:"type,omitempty"`
	TypeList []DataType `yaml:"types,omitempty" msgpack:"types,omitempty"`
	Func     *FuncRef   `yaml:"func,omitempty" msgpack:"func,omitempty"`
}

// BoolAttr builds a bool attribute value.
func BoolAttr(v bool) *AttrValue { return &AttrValue{Bool: &v} }

// IntAttr builds an int attribute value.
func IntAttr(v int64) *AttrValue { return &AttrValue{Int: &v} }

// StrAttr builds a string attribute value.
func StrAttr(v string) *AttrValue { return &AttrValue{Str: &v} }

// TypeAttr builds a type attribute value.
func TypeAttr(t DataType) *AttrValue { return &AttrValue{Type: t} }

// TypeListAttr builds a type-list attribute value.
func TypeListAttr(ts ...DataType) *AttrValue { return &AttrValue{TypeList: ts} }

// FuncAttr builds a function-reference attribute value.
func FuncAttr(name string, attrs map[string]*AttrValue) *AttrValue {
	return &AttrValue{Func: &FuncRef{Name: name, Attrs: attrs}}
}

// GetBool returns the bool value, or false if the attribute is absent
// or not a bool.
func (a *AttrValue) GetBool() bool {
	if a == nil || a.Bool == nil {
		return false
	}
	return *a.Bool
}

// GetInt returns the int value, or 0 if absent.
func (a *AttrValue) GetInt() int64 {
	if a == nil || a.Int == nil {
		return 0
	}
	return *a.Int
}

// GetStr returns the string value, or "" if absent.
func (a *AttrValue) GetStr() string {
	if a == nil || a.Str == nil {
		return ""
	}
	return *a.Str
}

// GetType returns the type value, or DTInvalid if absent.
func (a *AttrValue) GetType() DataType {
	if a == nil {
		return DTInvalid
	}
	return a.Type
}

// GetFunc returns the function reference, or nil if absent.
func (a *AttrValue) GetFunc() *FuncRef {
	if a == nil {
		return nil
	}
	return a.Func
}

// Copy returns a deep copy of the attribute value.
func (a *AttrValue) Copy() *AttrValue {
	if a == nil {
		return nil
	}
	out := &AttrValue{Type: a.Type}
	if a.Bool != nil {
		v := *a.Bool
		out.Bool = &v
	}
	if a.Int != nil {
		v := *a.Int
		out.Int = &v
	}
	if a.Str != nil {
		v := *a.Str
		out.Str = &v
	}
	if a.TypeList != nil {
		out.TypeList = append([]DataType(nil), a.TypeList...)
	}
	if a.Func != nil {
		out.Func = &FuncRef{Name: a.Func.Name, Attrs: CopyAttrs(a.Func.Attrs)}
	}
	return out
}

// CopyAttrs returns a deep copy of an attribute map.
func CopyAttrs(attrs map[string]*AttrValue) map[string]*AttrValue {
	if attrs == nil {
		return nil
	}
	out := make(map[string]*AttrValue, len(attrs))
	for k, v := range attrs {
		out[k] = v.Copy()
	}
	return out
}
