// Package config loads deployment descriptors: the widths and dispatch
// table that pin the codec to one host ledger.
//
// A descriptor is a YAML file:
//
//	layout:
//	  account_id_width: 32
//	  index_width: 8
//	  balance_width: 16
//	modules:
//	  - name: Balances
//	    index: 5
//	    operations:
//	      - name: transfer
//	      - name: set_balance
//
// Operations without an explicit index are numbered by declaration
// order, matching how the runtime assigns call indices. Module and
// operation indices must be checked against the target runtime.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/noderuntime"
)

// Deployment describes one host ledger deployment.
type Deployment struct {
	// Name is informational (e.g. "node-runtime").
	Name string `yaml:"name"`

	// Layout holds the wire widths.
	Layout codec.Layout `yaml:"layout"`

	// Modules lists the runtime modules the program may call.
	Modules []Module `yaml:"modules"`
}

// Module describes one runtime module.
type Module struct {
	Name       string      `yaml:"name"`
	Index      uint8       `yaml:"index"`
	Operations []Operation `yaml:"operations"`
}

// Operation describes one call of a module. Index is optional; when
// nil the operation's position in the list is used.
type Operation struct {
	Name  string `yaml:"name"`
	Index *uint8 `yaml:"index,omitempty"`
}

// Catalog maps module name to operation name to constructor. It lists
// the operations this build knows how to encode.
type Catalog map[string]map[string]func() codec.Operation

// DefaultCatalog returns the catalog of all built-in modules.
func DefaultCatalog() Catalog {
	return Catalog{
		balances.ModuleName: balances.Constructors(),
	}
}

// Load reads a deployment from a YAML file.
func Load(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deployment %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("deployment %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a deployment from YAML. Unknown fields are rejected so
// a misspelled width cannot silently fall back to zero.
func Parse(data []byte) (*Deployment, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var d Deployment
	if err := decoder.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty deployment")
		}
		return nil, fmt.Errorf("parsing deployment: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the layout and that module and operation names and
// indices are unique.
func (d *Deployment) Validate() error {
	if err := d.Layout.Validate(); err != nil {
		return err
	}
	if len(d.Modules) == 0 {
		return fmt.Errorf("deployment declares no modules")
	}
	moduleNames := make(map[string]bool, len(d.Modules))
	moduleIndices := make(map[uint8]string, len(d.Modules))
	for _, m := range d.Modules {
		if m.Name == "" {
			return fmt.Errorf("module at index %d has no name", m.Index)
		}
		if moduleNames[m.Name] {
			return fmt.Errorf("duplicate module %s", m.Name)
		}
		if prev, ok := moduleIndices[m.Index]; ok {
			return fmt.Errorf("modules %s and %s share index %d", prev, m.Name, m.Index)
		}
		moduleNames[m.Name] = true
		moduleIndices[m.Index] = m.Name

		opNames := make(map[string]bool, len(m.Operations))
		opIndices := make(map[uint8]string, len(m.Operations))
		for i, op := range m.Operations {
			if op.Name == "" {
				return fmt.Errorf("module %s: operation %d has no name", m.Name, i)
			}
			if opNames[op.Name] {
				return fmt.Errorf("module %s: duplicate operation %s", m.Name, op.Name)
			}
			if i > 255 {
				return fmt.Errorf("module %s: more than 256 operations", m.Name)
			}
			idx := op.index(i)
			if prev, ok := opIndices[idx]; ok {
				return fmt.Errorf("module %s: operations %s and %s share index %d", m.Name, prev, op.Name, idx)
			}
			opNames[op.Name] = true
			opIndices[idx] = op.Name
		}
	}
	return nil
}

func (op Operation) index(position int) uint8 {
	if op.Index != nil {
		return *op.Index
	}
	return uint8(position)
}

// Table builds a dispatch table, taking constructors from catalog.
// Every declared operation must be present in the catalog.
func (d *Deployment) Table(catalog Catalog) (*codec.Table, error) {
	specs := make([]codec.ModuleSpec, 0, len(d.Modules))
	for _, m := range d.Modules {
		ctors, ok := catalog[m.Name]
		if !ok {
			return nil, fmt.Errorf("module %s is not supported by this build", m.Name)
		}
		spec := codec.ModuleSpec{Name: m.Name, Index: m.Index}
		for i, op := range m.Operations {
			ctor, ok := ctors[op.Name]
			if !ok {
				return nil, fmt.Errorf("operation %s.%s is not supported by this build", m.Name, op.Name)
			}
			spec.Operations = append(spec.Operations, codec.OperationSpec{
				Name:  op.Name,
				Index: op.index(i),
				New:   ctor,
			})
		}
		specs = append(specs, spec)
	}
	return codec.NewTable(specs...)
}

// Codec builds a codec for the deployment using catalog.
func (d *Deployment) Codec(catalog Catalog) (*codec.Codec, error) {
	table, err := d.Table(catalog)
	if err != nil {
		return nil, err
	}
	return codec.New(d.Layout, table)
}

// NodeRuntime returns the descriptor of the reference node runtime.
func NodeRuntime() *Deployment {
	return &Deployment{
		Name:   "node-runtime",
		Layout: noderuntime.Layout(),
		Modules: []Module{{
			Name:  balances.ModuleName,
			Index: noderuntime.BalancesIndex,
			Operations: []Operation{
				{Name: balances.OpTransfer},
				{Name: balances.OpSetBalance},
			},
		}},
	}
}

// Marshal encodes the deployment as YAML.
func (d *Deployment) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
