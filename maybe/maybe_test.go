package maybe_test

import (
	"testing"

	. "github.com/npillmayer/persist/maybe"
)

func TestMaybeSimple(t *testing.T) {
	x := Just(7) // infers type
	y := Nothing[int]()
	if v, ok := x.Get(); !ok || v != 7 {
		t.Errorf("expected x to be Just(7), is %#v", v)
	}
	if w, ok := y.Get(); ok || w != 0 {
		t.Errorf("expected y to be Nothing, holds %#v", w)
	}
}

func TestMaybeWithDefault(t *testing.T) {
	x := Just(7)
	xx := x.WithDefault(100)
	if xx != 7 {
		t.Logf("y = %d", xx)
		t.Error("expected Just(7) to have value 7, isn't")
	}

	y := Nothing[int]()
	yy := y.WithDefault(100)
	if yy != 100 {
		t.Logf("y = %d", yy)
		t.Error("expected Nothing to default to 100, isn't")
	}
}

func TestMaybeMap(t *testing.T) {
	x := Just(7)
	xx := x.Map(func(n int) int {
		return n * 2
	})
	if v := xx.WithDefault(0); v != 14 {
		t.Logf("x * 2 = %d", v)
		t.Error("expected Just(7).Map(…) to return 14, didn't")
	}

	calls := 0
	y := Nothing[int]()
	yy := y.Map(func(n int) int {
		calls++
		return n * 2
	})
	if yy.IsJust() || calls != 0 {
		t.Errorf("expected Nothing.Map(…) to stay Nothing, got calls=%d", calls)
	}
}

func TestMaybeOfCommaOk(t *testing.T) {
	lookup := map[string]int{"seven": 7}
	v, ok := lookup["seven"]
	x := Of(v, ok)
	if !x.IsJust() {
		t.Fatal("expected Of(7, true) to be Just, isn't")
	}
	if n, _ := x.Get(); n != 7 {
		t.Errorf("expected Of(7, true) to hold 7, holds %d", n)
	}
	v, ok = lookup["eight"]
	y := Of(v, ok)
	if y.IsJust() {
		t.Error("expected Of(0, false) to be Nothing, isn't")
	}
	if _, ok := y.Get(); ok {
		t.Error("expected Nothing.Get() to report absence")
	}
}
