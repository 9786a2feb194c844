package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
)

//go:embed example.yaml
var rawExample []byte

var flagNames = map[string]types.Flags{
	"dynamic": types.Dynamic,
	"static":  types.Static,
	"noref":   types.NoRef,
}

// Decl declares one type by name.
type Decl struct {
	Name    string   `yaml:"name"`
	Flags   []string `yaml:"flags"`
	Extends []string `yaml:"extends"`
	Size    uint64   `yaml:"size"`
}

// TypeFlags parses the declared flag names.
func (d Decl) TypeFlags() (types.Flags, error) {
	var f types.Flags
	for _, name := range d.Flags {
		bit, ok := flagNames[strings.ToLower(name)]
		if !ok {
			valid := maps.Keys(flagNames)
			slices.Sort(valid)
			return 0, errors.New(errors.PhaseManifest, errors.KindInvalidInput).
				Type(d.Name, 0).
				Value(name).
				Detail("unknown flag %q (valid: %s)", name, strings.Join(valid, ", ")).
				Build()
		}
		f |= bit
	}
	return f, nil
}

// Manifest is a named set of type declarations.
type Manifest struct {
	Name  string `yaml:"name"`
	Types []Decl `yaml:"types"`
}

// Parse decodes a YAML manifest and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidData(errors.PhaseManifest, "malformed manifest", err)
	}
	if _, err := m.Order(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindNotFound, err, "reading "+path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	Logger().Debug("manifest loaded",
		zap.String("path", path),
		zap.String("name", m.Name),
		zap.Int("types", len(m.Types)),
	)
	return m, nil
}

// Example returns the built-in device hierarchy manifest.
func Example() *Manifest {
	m, err := Parse(rawExample)
	if err != nil {
		panic(err)
	}
	return m
}

type declNode struct {
	decl *Decl
	id   int64
}

func (n *declNode) ID() int64 {
	return n.id
}

// Order returns the declarations with every type after its ancestors.
// Ties keep declaration order.
func (m *Manifest) Order() ([]Decl, error) {
	nodes := make(map[string]*declNode, len(m.Types))
	for i := range m.Types {
		d := &m.Types[i]
		if d.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseManifest, fmt.Sprintf("type %d has no name", i))
		}
		if _, dup := nodes[d.Name]; dup {
			return nil, errors.New(errors.PhaseManifest, errors.KindAlreadyRegistered).
				Type(d.Name, 0).
				Detail("declared twice").
				Build()
		}
		if _, err := d.TypeFlags(); err != nil {
			return nil, err
		}
		nodes[d.Name] = &declNode{decl: d, id: int64(i)}
	}

	g := multi.NewDirectedGraph()
	for _, d := range m.Types {
		g.AddNode(nodes[d.Name])
	}
	for _, d := range m.Types {
		node := nodes[d.Name]
		for _, anc := range d.Extends {
			if anc == d.Name {
				return nil, errors.Cycle([]string{d.Name})
			}
			parent, ok := nodes[anc]
			if !ok {
				return nil, errors.New(errors.PhaseManifest, errors.KindNotFound).
					Type(d.Name, 0).
					Detail("extends undeclared type %q", anc).
					Build()
			}
			g.SetLine(g.NewLine(parent, node))
		}
	}

	sorted, err := topo.SortStabilized(g, func(ns []graph.Node) {
		slices.SortFunc(ns, func(a, b graph.Node) bool { return a.ID() < b.ID() })
	})
	if err != nil {
		var names []string
		if u, ok := err.(topo.Unorderable); ok {
			for _, component := range u {
				for _, n := range component {
					names = append(names, n.(*declNode).decl.Name)
				}
			}
		}
		slices.Sort(names)
		return nil, errors.Cycle(names)
	}

	out := make([]Decl, len(sorted))
	for i, n := range sorted {
		out[i] = *n.(*declNode).decl
	}
	return out, nil
}

// Register adds every declared type to reg, ancestors first. On failure
// the types registered so far are removed again. A non-nil trace records
// construction and destruction of instances of these types.
func (m *Manifest) Register(reg *types.Registry, trace *Trace) (set *Set, err error) {
	ordered, err := m.Order()
	if err != nil {
		return nil, err
	}

	set = newSet(reg, m.Name)
	defer func() {
		if r := recover(); r != nil {
			set.Unregister()
			set = nil
			err = errors.Recover(r)
		}
	}()

	for _, d := range ordered {
		flags, _ := d.TypeFlags()
		info := &types.Info{
			Name:  d.Name,
			Size:  uintptr(d.Size),
			Flags: flags,
		}
		for _, anc := range d.Extends {
			info.Extends = append(info.Extends, set.byName[anc])
		}
		if trace != nil {
			trace.hook(info)
		}
		reg.Register(info)
		set.add(d.Name, info)
	}

	Logger().Debug("manifest registered",
		zap.String("name", m.Name),
		zap.Int("types", len(ordered)),
	)

	return set, nil
}
