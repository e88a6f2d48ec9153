package builtins

import (
	"testing"

	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func TestLookupFindsArithmeticOverloads(t *testing.T) {
	ovs, ok := Lookup("add")
	if !ok {
		t.Fatal("expected add to be registered")
	}
	found := false
	for _, o := range ovs {
		if o.Arity() == 2 && ts.Equal(o.Params[0], ts.I32) && ts.Equal(o.Result, ts.I32) {
			found = true
		}
	}
	if !found {
		t.Error("expected an (i32, i32) -> i32 overload of add")
	}
}

func TestLookupOrdersByDescendingArity(t *testing.T) {
	ovs, ok := Lookup("neg")
	if !ok {
		t.Fatal("expected neg to be registered")
	}
	for i := 1; i < len(ovs); i++ {
		if ovs[i].Arity() > ovs[i-1].Arity() {
			t.Fatalf("overloads not sorted by descending arity: %+v", ovs)
		}
	}
}

func TestUnknownNameNotFunctionCapable(t *testing.T) {
	if IsFunctionCapable("definitely_not_a_builtin") {
		t.Error("unexpected match for unregistered name")
	}
}

func TestLenIsPolymorphicOverVecAndString(t *testing.T) {
	ovs, ok := Lookup("len")
	if !ok {
		t.Fatal("expected len to be registered")
	}
	var sawVec, sawString bool
	for _, o := range ovs {
		switch o.Params[0].(type) {
		case ts.VecType:
			sawVec = true
		case ts.Prim:
			if ts.Equal(o.Params[0], ts.String) {
				sawString = true
			}
		}
	}
	if !sawVec || !sawString {
		t.Error("expected len overloads over both Vec[T] and String")
	}
}

func TestIntrinsicsHaveStableSignatures(t *testing.T) {
	i, ok := LookupIntrinsic("wasi_print")
	if !ok {
		t.Fatal("expected wasi_print to be registered")
	}
	if i.FullName() != "wasi_snapshot_preview1.wasi_print" {
		t.Errorf("unexpected import name: %s", i.FullName())
	}
	if i.Sig.Arrow != ts.Impure {
		t.Error("host intrinsics must be impure")
	}
}

func TestAllOverloadsAreImpureFree(t *testing.T) {
	for _, name := range AllNames() {
		ovs, _ := Lookup(name)
		for _, o := range ovs {
			if o.Arrow != ts.Pure {
				t.Errorf("built-in overload %s must be pure, got %s", name, o.Arrow)
			}
		}
	}
}
