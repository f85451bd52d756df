// Package pricing derives the discount terms of a listing from its raw prices.
//
// Percentages are rounded half up: a 12.5% reduction is reported as 13.
package pricing

import "github.com/irsalhamdi/course-listing/validate"

type Pricing struct {
	OriginalPrice   int  `json:"originalPrice"`
	DiscountedPrice *int `json:"discountedPrice"`
	DiscountPercent *int `json:"discountPercent"`
}

// Compute validates a price pair and derives the discount percent. A
// discounted price equal to the original, a zero original price, or a
// reduction that rounds to zero all collapse to "no discount".
func Compute(original int, discounted *int) (Pricing, error) {
	if original < 0 {
		return Pricing{}, validate.NewFieldError("originalPrice", "must be a non-negative integer")
	}

	none := Pricing{OriginalPrice: original}

	if discounted == nil {
		return none, nil
	}

	d := *discounted
	if d < 0 {
		return Pricing{}, validate.NewFieldError("discountedPrice", "must be a non-negative integer")
	}

	if d == original {
		return none, nil
	}

	if d > original {
		return Pricing{}, validate.NewFieldError("discountedPrice", "must not exceed the original price")
	}

	if original == 0 {
		return none, nil
	}

	percent := Percent(original, d)
	if percent <= 0 {
		return none, nil
	}

	return Pricing{
		OriginalPrice:   original,
		DiscountedPrice: &d,
		DiscountPercent: &percent,
	}, nil
}

// Percent returns round-half-up(100 * (original - discounted) / original)
// using integer arithmetic. original must be positive.
func Percent(original, discounted int) int {
	o := int64(original)
	diff := int64(original - discounted)
	return int((200*diff + o) / (2 * o))
}

// ListingFee prices a listing of the given number of days.
func ListingFee(days int, feePerDay int) (int, error) {
	if days < 1 {
		return 0, validate.NewFieldError("listingDays", "must be at least 1")
	}
	if feePerDay < 0 {
		return 0, validate.NewFieldError("feePerDay", "must be a non-negative integer")
	}
	return days * feePerDay, nil
}
