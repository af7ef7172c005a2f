package doclayout

import "testing"

func TestRegistryCategoryCounts(t *testing.T) {
	counts := map[Category]int{}
	for _, k := range Kinds() {
		m, ok := Metadata(k)
		if !ok {
			t.Fatalf("Kinds returned unregistered kind %q", k)
		}
		if m.Kind != k {
			t.Fatalf("metadata for %q carries kind %q", k, m.Kind)
		}
		counts[m.Category]++
	}

	if got := counts[CategoryContainer]; got != 7 {
		t.Errorf("expected 7 containers, got %d", got)
	}
	if got := counts[CategoryWrapper]; got != 31 {
		t.Errorf("expected 31 wrappers, got %d", got)
	}
	if got := counts[CategoryLeaf]; got != 12 {
		t.Errorf("expected 12 leaves, got %d", got)
	}
	if len(Kinds()) != 50 {
		t.Errorf("expected 50 kinds, got %d", len(Kinds()))
	}
}

func TestRegistryRequiredProperties(t *testing.T) {
	tests := []struct {
		kind Kind
		prop string
	}{
		{KindText, "content"},
		{KindImage, "src"},
		{KindTable, "columns"},
		{KindBackground, "color"},
		{KindHyperlink, "url"},
		{KindBarcode, "content"},
		{KindQRCode, "content"},
		{KindScale, "factor"},
	}
	for _, tt := range tests {
		m, ok := Metadata(tt.kind)
		if !ok {
			t.Fatalf("missing metadata for %q", tt.kind)
		}
		if _, ok := m.PropSpecFor(tt.prop); !ok {
			t.Errorf("%q: expected declared property %q", tt.kind, tt.prop)
		}
	}
}

func TestRegistryDefaults(t *testing.T) {
	m, _ := Metadata(KindSpacer)
	spec, ok := m.PropSpecFor("size")
	if !ok {
		t.Fatal("spacer must declare size")
	}
	if spec.Default.String() != "10" {
		t.Fatalf("unexpected spacer default: %v", spec.Default)
	}

	m, _ = Metadata(KindDivider)
	spec, _ = m.PropSpecFor("thickness")
	if spec.Default.String() != "0.3" {
		t.Fatalf("unexpected divider thickness default: %v", spec.Default)
	}
	spec, _ = m.PropSpecFor("color")
	if spec.Default.Text() != "#B4B4B4" {
		t.Fatalf("unexpected divider color default: %v", spec.Default)
	}
}

func TestRegistryEnums(t *testing.T) {
	m, _ := Metadata(KindBarcode)
	spec, _ := m.PropSpecFor("symbology")
	if len(spec.Enum) != 4 || spec.Enum[0] != "code128" {
		t.Fatalf("unexpected symbology enum: %v", spec.Enum)
	}

	m, _ = Metadata(KindQRCode)
	spec, _ = m.PropSpecFor("errorCorrection")
	if len(spec.Enum) != 4 || spec.Default.Text() != "M" {
		t.Fatalf("unexpected errorCorrection spec: %v default %v", spec.Enum, spec.Default)
	}
}

func TestRegistryDeprecation(t *testing.T) {
	m, ok := Metadata(KindShowIf)
	if !ok {
		t.Fatal("showIf must stay registered")
	}
	if !m.Deprecated || m.ReplacedBy != "visible" {
		t.Fatalf("showIf must be deprecated in favor of visible, got %+v", m)
	}

	for _, k := range Kinds() {
		if k == KindShowIf {
			continue
		}
		m, _ := Metadata(k)
		if m.Deprecated {
			t.Errorf("%q: unexpected deprecation", k)
		}
	}
}

func TestIsKnownKind(t *testing.T) {
	if !IsKnownKind(KindColumn) {
		t.Fatal("column must be known")
	}
	if IsKnownKind(Kind("hologram")) {
		t.Fatal("hologram must be unknown")
	}
}
