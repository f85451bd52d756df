package request

import (
	"strings"

	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/locale"
	"github.com/irsalhamdi/course-listing/core/media"
	"github.com/irsalhamdi/course-listing/core/pricing"
	"github.com/irsalhamdi/course-listing/validate"
)

// checkDraft enforces the invariants every stored request satisfies, whatever
// its status, and refreshes the derived discount percent.
func checkDraft(r *Request, videos int) error {
	if r.Kind != listing.Course && r.Delivery != "" {
		return validate.NewFieldError("delivery", "is only allowed for courses")
	}
	if r.Kind == listing.Course && r.Delivery == listing.Video && r.ListingDays != nil {
		return validate.NewFieldError("delivery", "video courses are not time-boxed, the listing duration is already set")
	}

	if videos > media.MaxVideos {
		return validate.NewFieldError("videos", "at most %d videos are allowed", media.MaxVideos)
	}
	if videos > 0 && !(r.Kind == listing.Course && r.Delivery == listing.Video) {
		return validate.NewFieldError("videos", "are only allowed for video courses")
	}

	if r.Address != nil && r.Format != listing.Onsite {
		return validate.NewFieldError("address", "is only allowed for onsite listings")
	}
	if r.OnlineURL != nil && r.Format != listing.Online {
		return validate.NewFieldError("onlineUrl", "is only allowed for online listings")
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return validate.NewFieldError("endDate", "must not be before the start date")
	}

	if err := refreshPricing(r); err != nil {
		return err
	}

	return locale.Check(r.course(), r.Secondary())
}

func refreshPricing(r *Request) error {
	if r.OriginalPrice == nil {
		if r.DiscountedPrice != nil {
			return validate.NewFieldError("originalPrice", "is required when a discounted price is set")
		}
		r.DiscountPercent = nil
		return nil
	}

	p, err := pricing.Compute(*r.OriginalPrice, r.DiscountedPrice)
	if err != nil {
		return err
	}

	r.DiscountedPrice = p.DiscountedPrice
	r.DiscountPercent = p.DiscountPercent
	return nil
}

// checkSubmission is the gate a request must pass to leave the editable
// states. It reports the first missing or inconsistent field.
func checkSubmission(r Request) error {
	required := []struct {
		field string
		value string
	}{
		{"category", r.Category},
		{"format", string(r.Format)},
		{"title", r.Title},
		{"description", r.Description},
		{"imageUrl", r.ImageURL},
	}
	for _, f := range required {
		if blank(f.value) {
			return validate.Required(f.field)
		}
	}

	switch r.Format {
	case listing.Onsite:
		if r.Address == nil || blank(*r.Address) {
			return validate.Required("address")
		}
	case listing.Online:
		if r.OnlineURL == nil || blank(*r.OnlineURL) {
			return validate.Required("onlineUrl")
		}
	}

	if err := locale.Check(r.course(), r.Secondary()); err != nil {
		return err
	}

	switch r.Kind {
	case listing.Workshop, listing.Masterclass:
		if r.Date == nil {
			return validate.Required("date")
		}
		return checkPaidListing(r)

	case listing.Course:
		if blank(r.Syllabus) {
			return validate.Required("syllabus")
		}
		if blank(r.MentorFirstName) {
			return validate.Required("mentorFirstName")
		}
		if blank(r.MentorLastName) {
			return validate.Required("mentorLastName")
		}

		switch r.Delivery {
		case listing.Video:
			if r.ListingDays != nil {
				return validate.NewFieldError("delivery", "video courses are not time-boxed, the listing duration is already set")
			}
			if len(r.Videos) == 0 {
				return validate.NewFieldError("videos", "at least one video is required")
			}
			if len(r.Videos) > media.MaxVideos {
				return validate.NewFieldError("videos", "at most %d videos are allowed", media.MaxVideos)
			}
			return nil

		case listing.Live:
			if r.StartDate == nil {
				return validate.Required("startDate")
			}
			return checkPaidListing(r)

		default:
			return validate.Required("delivery")
		}
	}

	return validate.NewFieldError("kind", "unknown kind %q", string(r.Kind))
}

func checkPaidListing(r Request) error {
	if r.ListingDays == nil {
		return validate.Required("listingDays")
	}
	if !r.Paid {
		return validate.NewFieldError("paid", "the listing fee has not been paid")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func fromNew(n RequestNew) listing.Content {
	return listing.Content{
		Kind:                     n.Kind,
		Delivery:                 n.Delivery,
		Category:                 n.Category,
		Format:                   n.Format,
		Title:                    n.Title,
		Description:              n.Description,
		Syllabus:                 n.Syllabus,
		MentorFirstName:          n.MentorFirstName,
		MentorLastName:           n.MentorLastName,
		MentorBio:                n.MentorBio,
		TitleSecondary:           n.TitleSecondary,
		DescriptionSecondary:     n.DescriptionSecondary,
		SyllabusSecondary:        n.SyllabusSecondary,
		MentorFirstNameSecondary: n.MentorFirstNameSecondary,
		MentorLastNameSecondary:  n.MentorLastNameSecondary,
		MentorBioSecondary:       n.MentorBioSecondary,
		ImageURL:                 n.ImageURL,
		Date:                     n.Date,
		StartDate:                n.StartDate,
		EndDate:                  n.EndDate,
		Address:                  n.Address,
		OnlineURL:                n.OnlineURL,
	}
}

// applyUp merges a partial edit into r. Switching the format drops the
// placement of the other format.
func applyUp(r *Request, up RequestUp) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	if up.Delivery != nil {
		r.Delivery = *up.Delivery
	}
	setString(&r.Category, up.Category)
	if up.Format != nil && *up.Format != r.Format {
		r.Format = *up.Format
		switch r.Format {
		case listing.Online:
			r.Address = nil
		case listing.Onsite:
			r.OnlineURL = nil
		}
	}

	setString(&r.Title, up.Title)
	setString(&r.Description, up.Description)
	setString(&r.Syllabus, up.Syllabus)
	setString(&r.MentorFirstName, up.MentorFirstName)
	setString(&r.MentorLastName, up.MentorLastName)
	setString(&r.MentorBio, up.MentorBio)

	setString(&r.TitleSecondary, up.TitleSecondary)
	setString(&r.DescriptionSecondary, up.DescriptionSecondary)
	setString(&r.SyllabusSecondary, up.SyllabusSecondary)
	setString(&r.MentorFirstNameSecondary, up.MentorFirstNameSecondary)
	setString(&r.MentorLastNameSecondary, up.MentorLastNameSecondary)
	setString(&r.MentorBioSecondary, up.MentorBioSecondary)

	setString(&r.ImageURL, up.ImageURL)

	if up.OriginalPrice != nil {
		r.OriginalPrice = up.OriginalPrice
	}
	if up.ClearDiscount {
		r.DiscountedPrice = nil
	}
	if up.DiscountedPrice != nil {
		r.DiscountedPrice = up.DiscountedPrice
	}

	if up.Date != nil {
		r.Date = up.Date
	}
	if up.StartDate != nil {
		r.StartDate = up.StartDate
	}
	if up.EndDate != nil {
		r.EndDate = up.EndDate
	}

	if up.Address != nil {
		r.Address = up.Address
	}
	if up.OnlineURL != nil {
		r.OnlineURL = up.OnlineURL
	}
}

func checkMediaIn(videos []media.VideoIn, materials []media.MaterialIn) error {
	if len(videos) > media.MaxVideos {
		return validate.NewFieldError("videos", "at most %d videos are allowed", media.MaxVideos)
	}
	for _, v := range videos {
		if err := validate.Check(v); err != nil {
			return err
		}
	}
	for _, m := range materials {
		if err := validate.Check(m); err != nil {
			return err
		}
	}
	return nil
}
