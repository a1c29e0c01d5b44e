package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sbl", []byte("one\ntwo\nthree\n"))

	cases := []struct {
		offset    uint32
		line, col uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{8, 3, 1},
		{12, 3, 5},
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.offset, End: c.offset})
		if start.Line != c.line || start.Col != c.col {
			t.Errorf("offset %d: want %d:%d, got %d:%d", c.offset, c.line, c.col, start.Line, start.Col)
		}
	}
}

func TestResolveUnknownFile(t *testing.T) {
	fs := NewFileSet()
	start, end := fs.Resolve(Span{File: 9, Start: 5, End: 6})
	if start.Line != 1 || start.Col != 1 || end.Line != 1 || end.Col != 1 {
		t.Fatalf("unknown files resolve to 1:1, got %v %v", start, end)
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sbl", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	if got := f.Line(1); got != "one" {
		t.Errorf("line 1: got %q", got)
	}
	if got := f.Line(2); got != "two" {
		t.Errorf("line 2: got %q", got)
	}
	// Last line has no trailing newline.
	if got := f.Line(3); got != "three" {
		t.Errorf("line 3: got %q", got)
	}
	if got := f.Line(4); got != "" {
		t.Errorf("line 4 does not exist, got %q", got)
	}
	if got := f.Line(0); got != "" {
		t.Errorf("line 0 does not exist, got %q", got)
	}
}

func TestLookupNormalizesPaths(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dir/a.sbl", nil)
	got, ok := fs.Lookup("dir/a.sbl")
	if !ok || got != id {
		t.Fatalf("lookup failed: ok=%v id=%v", ok, got)
	}
	if fs.Get(id).Flags&FileVirtual == 0 {
		t.Fatalf("virtual files carry the virtual flag")
	}
}

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("supply")
	b := in.Intern("supply")
	if a != b {
		t.Fatalf("same spelling must share an ID: %v %v", a, b)
	}
	if s, ok := in.Lookup(a); !ok || s != "supply" {
		t.Fatalf("lookup: %q %v", s, ok)
	}
	if in.Intern("owner") == a {
		t.Fatalf("distinct spellings must not collide")
	}
}

func TestInternerNormalizesNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("café")
	decomposed := in.Intern("café")
	if composed != decomposed {
		t.Fatalf("visually identical identifiers must share an ID")
	}
}

func TestInternerEmptyStringIsSentinel(t *testing.T) {
	in := NewInterner()
	if in.Intern("") != NoStringID {
		t.Fatalf("the empty string maps to the sentinel")
	}
}
