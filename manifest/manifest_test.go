package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
)

func declNames(ds []Decl) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
name: shapes
types:
  - name: Circle
    size: 8
    flags: [Static, noref]
    extends: [Shape]
  - name: Shape
    size: 16
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "shapes" || len(m.Types) != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}

	flags, err := m.Types[0].TypeFlags()
	if err != nil || flags != types.Static|types.NoRef {
		t.Errorf("flags = %v, %v", flags, err)
	}

	ordered, err := m.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if got := declNames(ordered); !reflect.DeepEqual(got, []string{"Shape", "Circle"}) {
		t.Errorf("ancestors should come first, got %v", got)
	}
}

func TestOrder_Stable(t *testing.T) {
	m := &Manifest{Types: []Decl{
		{Name: "D", Extends: []string{"B", "C"}},
		{Name: "C"},
		{Name: "B", Extends: []string{"A"}},
		{Name: "A"},
		{Name: "E"},
	}}

	ordered, err := m.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}

	pos := make(map[string]int)
	for i, d := range ordered {
		pos[d.Name] = i
	}
	for _, d := range m.Types {
		for _, anc := range d.Extends {
			if pos[anc] > pos[d.Name] {
				t.Errorf("%s ordered before its ancestor %s: %v", d.Name, anc, declNames(ordered))
			}
		}
	}

	again, _ := m.Order()
	if !reflect.DeepEqual(declNames(ordered), declNames(again)) {
		t.Error("Order should be deterministic")
	}
}

func TestOrder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		types []Decl
		kind  errors.Kind
		want  string
	}{
		{
			name:  "cycle",
			types: []Decl{{Name: "A", Extends: []string{"B"}}, {Name: "B", Extends: []string{"A"}}},
			kind:  errors.KindCycle,
			want:  "A, B",
		},
		{
			name:  "self",
			types: []Decl{{Name: "A", Extends: []string{"A"}}},
			kind:  errors.KindCycle,
			want:  "A",
		},
		{
			name:  "undeclared",
			types: []Decl{{Name: "A", Extends: []string{"Ghost"}}},
			kind:  errors.KindNotFound,
			want:  "Ghost",
		},
		{
			name:  "duplicate",
			types: []Decl{{Name: "A"}, {Name: "A"}},
			kind:  errors.KindAlreadyRegistered,
			want:  "declared twice",
		},
		{
			name:  "unnamed",
			types: []Decl{{Size: 4}},
			kind:  errors.KindInvalidInput,
			want:  "no name",
		},
		{
			name:  "bad_flag",
			types: []Decl{{Name: "A", Flags: []string{"sticky"}}},
			kind:  errors.KindInvalidInput,
			want:  "dynamic, noref, static",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Manifest{Types: tc.types}
			_, err := m.Order()
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !errors.As(err, &e) || e.Kind != tc.kind {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("types: [name: {"))
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindInvalidData {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	if err := os.WriteFile(path, []byte("name: file\ntypes:\n  - name: Only\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "file" || m.Types[0].Name != "Only" {
		t.Errorf("unexpected manifest %+v", m)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRegister(t *testing.T) {
	reg := types.NewRegistryWithDefaults()
	set, err := Example().Register(reg, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if set.Len() != reg.Len() || set.Name() != "devices" {
		t.Fatalf("set has %d types, registry %d", set.Len(), reg.Len())
	}

	enum, ok := set.Type("DeviceEnum")
	if !ok {
		t.Fatal("DeviceEnum missing")
	}
	object, _ := set.Type("Object")
	device, _ := set.Type("Device")
	if !reg.IsOf(enum, object) || !reg.IsOf(enum, device) {
		t.Error("ancestry not wired by name")
	}
	if set.TypeName(enum) != "DeviceEnum" {
		t.Errorf("TypeName = %q", set.TypeName(enum))
	}

	keymap, _ := set.Type("Keymap")
	if o, _ := reg.OwnershipOf(keymap); o != types.Owned {
		t.Error("noref flag should yield Owned")
	}

	// Object is reached through both Enumerator and Device.
	var objects int
	for _, s := range reg.Layout(enum) {
		if s.Type == object {
			objects++
		}
	}
	if objects != 2 {
		t.Errorf("expected Object flattened twice, got %d", objects)
	}

	names := set.Names()
	if names[0] != "Device" || len(names) != 7 {
		t.Errorf("Names should be sorted: %v", names)
	}

	set.Unregister()
	if reg.Len() != 0 || set.Len() != 0 {
		t.Errorf("Unregister should remove every type, %d left", reg.Len())
	}
}

func TestRegister_RollsBack(t *testing.T) {
	reg := types.NewRegistryWithDefaults()
	m := &Manifest{Types: []Decl{
		{Name: "Leaf", Flags: []string{"static"}},
		{Name: "Base"},
		{Name: "Bad", Extends: []string{"Base", "Leaf"}},
	}}

	set, err := m.Register(reg, nil)
	if set != nil {
		t.Fatal("failed registration should not return a set")
	}
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindNotExtendable {
		t.Fatalf("expected not_extendable, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("partial registration should be rolled back, %d left", reg.Len())
	}
}

func TestTrace(t *testing.T) {
	reg := types.NewRegistryWithDefaults()
	trace := &Trace{}
	set, err := (&Manifest{Types: []Decl{
		{Name: "A"},
		{Name: "B"},
		{Name: "Self", Extends: []string{"A", "B"}},
	}}).Register(reg, trace)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	self, _ := set.Type("Self")
	types.Destroy(reg.New(self, nil))

	var got []string
	for _, e := range trace.Events() {
		got = append(got, e.String())
	}
	want := []string{
		"construct A", "construct B", "construct Self",
		"destroy Self", "destroy B", "destroy A",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trace:\n got %v\nwant %v", got, want)
	}

	trace.Reset()
	if len(trace.Events()) != 0 {
		t.Error("Reset should drop events")
	}
}
