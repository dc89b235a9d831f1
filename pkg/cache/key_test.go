package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
)

func TestDeriveKey_Format(t *testing.T) {
	sum := sha256.Sum256([]byte(`q=price > 10|o=price desc|p=2|ps=20`))
	want := "catalog:" + hex.EncodeToString(sum[:])

	got := DeriveKey("price > 10", "price desc", 2, 20)
	if got != want {
		t.Errorf("DeriveKey() = %q, want %q", got, want)
	}
	if len(got) != len(KeyNamespace)+64 {
		t.Errorf("key length = %d, want %d", len(got), len(KeyNamespace)+64)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey(`currency == "USD"`, "", 1, 20)
	b := DeriveKey(`currency == "USD"`, "", 1, 20)
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestDeriveKey_NoNormalization(t *testing.T) {
	tests := []struct {
		name string
		a, b [4]string
	}{
		{"whitespace in filter", [4]string{"price > 10", "", "1", "20"}, [4]string{"price  > 10", "", "1", "20"}},
		{"case in filter", [4]string{"price > 10", "", "1", "20"}, [4]string{"Price > 10", "", "1", "20"}},
		{"case in order", [4]string{"", "price desc", "1", "20"}, [4]string{"", "price DESC", "1", "20"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if derive(tt.a) == derive(tt.b) {
				t.Errorf("textually different inputs should not share a key")
			}
		})
	}
}

func TestDeriveKey_AnyFieldChangesKey(t *testing.T) {
	seen := make(map[string]string)
	filters := []string{"", "price > 1", "price > 10", `name == "a|o=b"`, "isActive"}
	orders := []string{"", "price", "price desc", "name asc"}

	for _, f := range filters {
		for _, o := range orders {
			for page := 1; page <= 5; page++ {
				for _, size := range []int{1, 2, 20, 100} {
					input := fmt.Sprintf("%q/%q/%d/%d", f, o, page, size)
					key := DeriveKey(f, o, page, size)
					if prev, dup := seen[key]; dup {
						t.Fatalf("collision between %s and %s", prev, input)
					}
					seen[key] = input
				}
			}
		}
	}
}

func TestDeriveKey_OrderTagInFilterText(t *testing.T) {
	a := DeriveKey("x|o=y", "", 1, 1)
	b := DeriveKey("x", "y", 1, 1)
	if a == b {
		t.Errorf("filter ending in the order tag collided with an empty-order request: %q", a)
	}
}

// Filter and order text are joined without escaping, so moving text across
// a "|o=" between the two yields the same canonical form. Keys stay in this
// format for compatibility with entries already cached.
func TestDeriveKey_UnescapedDelimiterCollides(t *testing.T) {
	tests := []struct {
		filterA, orderA string
		filterB, orderB string
	}{
		{`name == "a|o=b"`, "", `name == "a`, `b"|o=`},
		{"x|o=y", "z", "x", "y|o=z"},
	}
	for _, tt := range tests {
		a := DeriveKey(tt.filterA, tt.orderA, 1, 20)
		b := DeriveKey(tt.filterB, tt.orderB, 1, 20)
		if a != b {
			t.Errorf("DeriveKey(%q, %q) != DeriveKey(%q, %q); the canonical form changed",
				tt.filterA, tt.orderA, tt.filterB, tt.orderB)
		}
	}
}

func derive(in [4]string) string {
	var page, size int
	fmt.Sscan(in[2], &page)
	fmt.Sscan(in[3], &size)
	return DeriveKey(in[0], in[1], page, size)
}
