package transform

import (
	"errors"
	"testing"

	"imdbload/internal/tsv"
)

func rec(names []string, fields ...string) tsv.Record {
	return tsv.Record{Header: tsv.NewHeader(names), Fields: fields}
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	in := rec([]string{"a", "b"}, "1", "2")
	out, err := Identity{}.Apply(in)
	if err != nil {
		t.Fatalf("identity error: %v", err)
	}
	if &out.Fields[0] != &in.Fields[0] {
		t.Errorf("identity should pass the record through unchanged")
	}
}

func TestFunc(t *testing.T) {
	t.Parallel()

	upper := Func(func(r tsv.Record) (tsv.Record, error) {
		r.Set("a", "X")
		return r, nil
	})
	out, err := upper.Apply(rec([]string{"a"}, "x"))
	if err != nil {
		t.Fatalf("func error: %v", err)
	}
	if out.Get("a") != "X" {
		t.Errorf("func transform not applied: %v", out.Fields)
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	appendTag := func(tag string) Transform {
		return Func(func(r tsv.Record) (tsv.Record, error) {
			r.Fields[0] += tag
			return r, nil
		})
	}
	c := Chain{appendTag("b"), appendTag("c")}
	out, err := c.Apply(rec([]string{"a"}, "a"))
	if err != nil {
		t.Fatalf("chain error: %v", err)
	}
	if out.Fields[0] != "abc" {
		t.Errorf("chain order wrong: %q", out.Fields[0])
	}
}

func TestChain_StopsAtError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var secondRan bool
	c := Chain{
		Func(func(r tsv.Record) (tsv.Record, error) { return r, boom }),
		Func(func(r tsv.Record) (tsv.Record, error) { secondRan = true; return r, nil }),
	}
	_, err := c.Apply(rec([]string{"a"}, "x"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if secondRan {
		t.Errorf("chain continued past error")
	}
}
