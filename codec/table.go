package codec

import (
	"fmt"
	"sort"

	"github.com/blockberries/rtcall"
)

// OperationSpec registers one operation of a module.
type OperationSpec struct {
	// Name must match the Name method of the operations New returns.
	Name string
	// Index is the operation discriminant within its module.
	Index byte
	// New returns a zero operation ready to be decoded into.
	New func() Operation
}

// ModuleSpec registers a runtime module and its operations.
type ModuleSpec struct {
	Name       string
	Index      byte
	Operations []OperationSpec
}

type moduleEntry struct {
	spec      ModuleSpec
	opsByIdx  map[byte]OperationSpec
	opsByName map[string]OperationSpec
}

// Table maps module and operation names to their discriminants. It
// mirrors the host runtime's module registration order and must be
// validated against it. A Table is read-only after NewTable returns.
type Table struct {
	byIndex map[byte]*moduleEntry
	byName  map[string]*moduleEntry
}

// NewTable validates the module specs and builds a table.
func NewTable(modules ...ModuleSpec) (*Table, error) {
	t := &Table{
		byIndex: make(map[byte]*moduleEntry, len(modules)),
		byName:  make(map[string]*moduleEntry, len(modules)),
	}
	for _, m := range modules {
		if m.Name == "" {
			return nil, fmt.Errorf("table: module %d has no name", m.Index)
		}
		if prev, ok := t.byIndex[m.Index]; ok {
			return nil, fmt.Errorf("table: modules %s and %s share index %d", prev.spec.Name, m.Name, m.Index)
		}
		if _, ok := t.byName[m.Name]; ok {
			return nil, fmt.Errorf("table: duplicate module %s", m.Name)
		}

		entry := &moduleEntry{
			spec:      m,
			opsByIdx:  make(map[byte]OperationSpec, len(m.Operations)),
			opsByName: make(map[string]OperationSpec, len(m.Operations)),
		}
		for _, op := range m.Operations {
			if err := checkOperation(m.Name, op); err != nil {
				return nil, err
			}
			if prev, ok := entry.opsByIdx[op.Index]; ok {
				return nil, fmt.Errorf("table: %s operations %s and %s share index %d", m.Name, prev.Name, op.Name, op.Index)
			}
			if _, ok := entry.opsByName[op.Name]; ok {
				return nil, fmt.Errorf("table: duplicate operation %s.%s", m.Name, op.Name)
			}
			entry.opsByIdx[op.Index] = op
			entry.opsByName[op.Name] = op
		}
		t.byIndex[m.Index] = entry
		t.byName[m.Name] = entry
	}
	return t, nil
}

func checkOperation(module string, op OperationSpec) error {
	if op.New == nil {
		return fmt.Errorf("table: %s.%s has no constructor", module, op.Name)
	}
	sample := op.New()
	if sample == nil {
		return fmt.Errorf("table: %s.%s constructor returned nil", module, op.Name)
	}
	if sample.Module() != module || sample.Name() != op.Name {
		return fmt.Errorf("table: %s.%s constructor builds %s.%s", module, op.Name, sample.Module(), sample.Name())
	}
	return nil
}

// Lookup returns the discriminants for module.operation.
func (t *Table) Lookup(module, operation string) (moduleIndex, opIndex byte, ok bool) {
	m, ok := t.byName[module]
	if !ok {
		return 0, 0, false
	}
	op, ok := m.opsByName[operation]
	if !ok {
		return 0, 0, false
	}
	return m.spec.Index, op.Index, true
}

// Resolve returns the module name and operation spec registered under
// the given discriminants.
func (t *Table) Resolve(moduleIndex, opIndex byte) (string, OperationSpec, error) {
	m, ok := t.byIndex[moduleIndex]
	if !ok {
		return "", OperationSpec{}, &rtcall.UnknownModuleError{Index: moduleIndex}
	}
	op, ok := m.opsByIdx[opIndex]
	if !ok {
		return m.spec.Name, OperationSpec{}, &rtcall.UnknownOperationError{Module: m.spec.Name, Index: opIndex}
	}
	return m.spec.Name, op, nil
}

// Modules returns the registered modules ordered by index.
func (t *Table) Modules() []ModuleSpec {
	out := make([]ModuleSpec, 0, len(t.byIndex))
	for _, m := range t.byIndex {
		out = append(out, m.spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
