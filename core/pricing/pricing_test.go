package pricing

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-listing/validate"
)

func intp(v int) *int { return &v }

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		discounted *int
		exp        Pricing
		fail       bool
	}{
		{name: "no discount", original: 150, exp: Pricing{OriginalPrice: 150}},
		{name: "twenty percent", original: 150, discounted: intp(120), exp: Pricing{OriginalPrice: 150, DiscountedPrice: intp(120), DiscountPercent: intp(20)}},
		{name: "equal prices collapse", original: 99, discounted: intp(99), exp: Pricing{OriginalPrice: 99}},
		{name: "free stays free", original: 0, discounted: intp(0), exp: Pricing{OriginalPrice: 0}},
		{name: "half rounds up", original: 8, discounted: intp(7), exp: Pricing{OriginalPrice: 8, DiscountedPrice: intp(7), DiscountPercent: intp(13)}},
		{name: "rounds to zero", original: 1000, discounted: intp(999), exp: Pricing{OriginalPrice: 1000}},
		{name: "full discount", original: 40, discounted: intp(0), exp: Pricing{OriginalPrice: 40, DiscountedPrice: intp(0), DiscountPercent: intp(100)}},
		{name: "negative original", original: -1, fail: true},
		{name: "negative discounted", original: 10, discounted: intp(-5), fail: true},
		{name: "discount above original", original: 10, discounted: intp(11), fail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.original, tt.discounted)
			if tt.fail {
				if !validate.IsFieldError(err) {
					t.Fatalf("expected a validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.exp, got); diff != "" {
				t.Fatalf("pricing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// halfUp is an independent reference for the rounded discount percent,
// computed with exact rationals.
func halfUp(original, discounted int) int {
	x := big.NewRat(int64(100*(original-discounted)), int64(original))
	x.Add(x, big.NewRat(1, 2))
	return int(new(big.Int).Quo(x.Num(), x.Denom()).Int64())
}

func TestComputeProperties(t *testing.T) {
	for o := 0; o <= 120; o++ {
		same, err := Compute(o, intp(o))
		if err != nil || same.DiscountPercent != nil {
			t.Fatalf("Compute(%d, %d) should collapse to no discount, got %+v, %v", o, o, same, err)
		}

		if _, err := Compute(o, intp(o+1)); err == nil {
			t.Fatalf("Compute(%d, %d) should fail", o, o+1)
		}

		for d := 0; d < o; d++ {
			got, err := Compute(o, intp(d))
			if err != nil {
				t.Fatalf("Compute(%d, %d): %v", o, d, err)
			}

			exp := halfUp(o, d)
			switch {
			case exp > 0 && (got.DiscountPercent == nil || *got.DiscountPercent != exp):
				t.Fatalf("Compute(%d, %d): expected %d%%, got %+v", o, d, exp, got)
			case exp == 0 && got.DiscountPercent != nil:
				t.Fatalf("Compute(%d, %d): expected no discount, got %+v", o, d, got)
			}
			if exp < 0 || exp > 100 {
				t.Fatalf("Compute(%d, %d): percent %d out of range", o, d, exp)
			}
		}
	}

	for _, d := range []int{0, 3, 100} {
		if got, _ := Compute(0, intp(d)); got.DiscountPercent != nil {
			t.Fatalf("Compute(0, %d) should never discount", d)
		}
	}
}

func TestListingFee(t *testing.T) {
	fee, err := ListingFee(7, 5)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 35 {
		t.Fatalf("expected fee 35, got %d", fee)
	}

	if _, err := ListingFee(0, 5); !validate.IsFieldError(err) {
		t.Fatalf("expected a validation error for zero days, got %v", err)
	}
}
