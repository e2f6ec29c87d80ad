package tool

import (
	"context"
	"errors"
	"testing"
)

func textHandler(msg string) Handler {
	return func(ctx context.Context, question string) (*Result, error) {
		return &Result{Text: msg}, nil
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "Dataset Overview", Kind: KindText}, textHandler("ok")); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := r.Lookup("Dataset Overview")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	res, err := got.Run(context.Background(), "")
	if err != nil || res.Text != "ok" {
		t.Fatalf("handler identity lost: res=%v err=%v", res, err)
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Descriptor{Name: "Generate Chart", Kind: KindChart}, textHandler("c"))
	if _, err := r.Lookup("generate chart"); err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("No Such Tool")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("want ErrToolNotFound, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Descriptor{Name: "X"}, textHandler("a"))
	if err := r.Register(Descriptor{Name: "x"}, textHandler("b")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "  "}, textHandler("a")); err == nil {
		t.Fatal("expected empty name to fail")
	}
	if err := r.Register(Descriptor{Name: "ok"}, nil); err == nil {
		t.Fatal("expected nil handler to fail")
	}
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Descriptor{Name: "b"}, textHandler(""))
	_ = r.Register(Descriptor{Name: "a"}, textHandler(""))
	_ = r.Register(Descriptor{Name: "c"}, textHandler(""))
	list := r.List()
	if len(list) != 3 || list[0].Name != "a" || list[1].Name != "b" || list[2].Name != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
