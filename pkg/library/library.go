// Package library manages function definitions: name lookup over the
// graph's function list and instantiation of polymorphic bodies.
package library

import (
	"fmt"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

// Library indexes a graph's function definitions by signature name.
// It keeps the underlying definitions in their original order and does
// not own them.
type Library struct {
	funcs  []*graph.FunctionDef
	byName map[string]*graph.FunctionDef
}

// New builds a library over the given definitions. A duplicate
// signature name keeps the first definition, matching lookup order.
func New(funcs []*graph.FunctionDef) *Library {
	lib := &Library{byName: make(map[string]*graph.FunctionDef, len(funcs))}
	for _, f := range funcs {
		if _, ok := lib.byName[f.Name()]; ok {
			continue
		}
		lib.funcs = append(lib.funcs, f)
		lib.byName[f.Name()] = f
	}
	return lib
}

// Find returns the definition for name, or nil.
func (l *Library) Find(name string) *graph.FunctionDef {
	return l.byName[name]
}

// Functions returns the definitions in their original order.
func (l *Library) Functions() []*graph.FunctionDef {
	return l.funcs
}

// Add registers a new definition. Adding a name that already exists is
// an error.
func (l *Library) Add(f *graph.FunctionDef) error {
	if _, ok := l.byName[f.Name()]; ok {
		return fmt.Errorf("function %q already defined", f.Name())
	}
	l.funcs = append(l.funcs, f)
	l.byName[f.Name()] = f
	return nil
}
