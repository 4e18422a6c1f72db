package extensions

import (
	"testing"
	"time"
)

func Test_FilterSingle(t *testing.T) {
	values := []string{"alpha", "beta", "gamma"}

	res, err := FilterSingle(values, func(s string) bool { return s == "beta" })
	if err != nil {
		t.Fatalf("expected a single match: %s", err)
	}
	AssertAreEqual(t, "single match", "beta", res)

	if _, err := FilterSingle(values, func(s string) bool { return len(s) == 5 }); err == nil {
		t.Fatalf("expected an error for multiple matches")
	}

	if _, err := FilterSingle(values, func(s string) bool { return s == "delta" }); err == nil {
		t.Fatalf("expected an error for zero matches")
	}
}

func Test_FilterMultiplePtr(t *testing.T) {
	one, two, three := 1, 2, 3
	values := []*int{&one, &two, &three}

	res := FilterMultiplePtr(values, func(v *int) bool { return *v > 1 })
	AssertAreEqual(t, "matches", 2, len(res))
	AssertAreEqual(t, "first match", 2, *res[0])
}

func Test_FmtShort(t *testing.T) {
	d := time.Date(2025, time.August, 29, 15, 4, 5, 0, time.UTC)
	AssertAreEqual(t, "date only", "2025-08-29", FmtShort(d))
}
