package request

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/media"
	"github.com/irsalhamdi/course-listing/validate"
)

func ptr[T any](v T) *T { return &v }

func readyWorkshop() Request {
	return Request{
		ID:     "r1",
		Status: Paid,
		Content: listing.Content{
			Kind:        listing.Workshop,
			Category:    "programming",
			Format:      listing.Online,
			Title:       "Go Concurrency",
			Description: "Channels and goroutines",
			ImageURL:    "https://img.example.com/go.png",
			Date:        ptr(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
			OnlineURL:   ptr("https://meet.example.com/go"),
		},
		ListingDays: ptr(7),
		ListingFee:  ptr(35),
		Paid:        true,
	}
}

func readyVideoCourse() Request {
	r := Request{
		ID:     "r2",
		Status: Draft,
		Content: listing.Content{
			Kind:            listing.Course,
			Delivery:        listing.Video,
			Category:        "programming",
			Format:          listing.Online,
			Title:           "Go Basics",
			Description:     "From zero",
			Syllabus:        "Types, functions, packages",
			MentorFirstName: "Ada",
			MentorLastName:  "Lovelace",
			ImageURL:        "https://img.example.com/basics.png",
			OnlineURL:       ptr("https://learn.example.com/go"),
		},
	}
	r.Videos = media.NewVideos(r.ID, []media.VideoIn{
		{Title: "one", URL: "https://v.example.com/1"},
		{Title: "two", URL: "https://v.example.com/2"},
		{Title: "three", URL: "https://v.example.com/3"},
	}, time.Now())
	return r
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()

	var fe *validate.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected a field error, got %v", err)
	}
	return fe.Field
}

func TestCheckSubmission(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *Request)
		field string
	}{
		{name: "complete workshop"},
		{name: "missing category", edit: func(r *Request) { r.Category = " " }, field: "category"},
		{name: "missing image", edit: func(r *Request) { r.ImageURL = "" }, field: "imageUrl"},
		{name: "online without url", edit: func(r *Request) { r.OnlineURL = nil }, field: "onlineUrl"},
		{name: "onsite without address", edit: func(r *Request) {
			r.Format = listing.Onsite
			r.OnlineURL = nil
		}, field: "address"},
		{name: "missing date", edit: func(r *Request) { r.Date = nil }, field: "date"},
		{name: "no listing days", edit: func(r *Request) { r.ListingDays = nil }, field: "listingDays"},
		{name: "not paid", edit: func(r *Request) { r.Paid = false }, field: "paid"},
		{name: "secondary title only", edit: func(r *Request) { r.TitleSecondary = "Concurrence" }, field: "descriptionSecondary"},
		{name: "secondary pair", edit: func(r *Request) {
			r.TitleSecondary = "Concurrence en Go"
			r.DescriptionSecondary = "Canaux et goroutines"
		}},
		{name: "secondary mentor first name only", edit: func(r *Request) { r.MentorFirstNameSecondary = "Ada" }, field: "mentorLastNameSecondary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readyWorkshop()
			if tt.edit != nil {
				tt.edit(&r)
			}

			err := checkSubmission(r)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := fieldOf(t, err); got != tt.field {
				t.Fatalf("expected error on %q, got %q (%v)", tt.field, got, err)
			}
		})
	}
}

func TestCheckSubmissionCourse(t *testing.T) {
	r := readyVideoCourse()
	if err := checkSubmission(r); err != nil {
		t.Fatalf("video course without payment should pass: %v", err)
	}

	r.Videos = nil
	if got := fieldOf(t, checkSubmission(r)); got != "videos" {
		t.Fatalf("expected error on videos, got %q", got)
	}

	r = readyVideoCourse()
	r.Syllabus = ""
	if got := fieldOf(t, checkSubmission(r)); got != "syllabus" {
		t.Fatalf("expected error on syllabus, got %q", got)
	}

	r = readyVideoCourse()
	r.TitleSecondary = "Bases de Go"
	r.DescriptionSecondary = "Depuis zéro"
	if got := fieldOf(t, checkSubmission(r)); got != "syllabusSecondary" {
		t.Fatalf("courses need a secondary syllabus, got error on %q", got)
	}
	r.SyllabusSecondary = "Types, fonctions, paquets"
	if err := checkSubmission(r); err != nil {
		t.Fatalf("complete secondary content should pass: %v", err)
	}

	r = readyVideoCourse()
	r.Delivery = listing.Live
	r.Videos = nil
	if got := fieldOf(t, checkSubmission(r)); got != "startDate" {
		t.Fatalf("expected error on startDate, got %q", got)
	}
	r.StartDate = ptr(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	if got := fieldOf(t, checkSubmission(r)); got != "listingDays" {
		t.Fatalf("live courses are time-boxed, got error on %q", got)
	}

	r = readyVideoCourse()
	r.ListingDays = ptr(7)
	if got := fieldOf(t, checkSubmission(r)); got != "delivery" {
		t.Fatalf("a video course with a listing duration should fail on delivery, got %q", got)
	}

	r = readyVideoCourse()
	r.Delivery = ""
	r.Videos = nil
	if got := fieldOf(t, checkSubmission(r)); got != "delivery" {
		t.Fatalf("expected error on delivery, got %q", got)
	}
}

func TestCheckDraft(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(r *Request)
		videos int
		field  string
	}{
		{name: "valid"},
		{name: "delivery on workshop", edit: func(r *Request) { r.Delivery = listing.Live }, field: "delivery"},
		{name: "videos on workshop", videos: 1, field: "videos"},
		{name: "video course with listing days", edit: func(r *Request) {
			r.Kind = listing.Course
			r.Delivery = listing.Video
		}, field: "delivery"},
		{name: "address on online", edit: func(r *Request) { r.Address = ptr("Main St 1") }, field: "address"},
		{name: "url on onsite", edit: func(r *Request) { r.Format = listing.Onsite }, field: "onlineUrl"},
		{name: "end before start", edit: func(r *Request) {
			r.StartDate = ptr(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
			r.EndDate = ptr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		}, field: "endDate"},
		{name: "discount without price", edit: func(r *Request) { r.DiscountedPrice = ptr(10) }, field: "originalPrice"},
		{name: "discount above price", edit: func(r *Request) {
			r.OriginalPrice = ptr(100)
			r.DiscountedPrice = ptr(120)
		}, field: "discountedPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readyWorkshop()
			if tt.edit != nil {
				tt.edit(&r)
			}

			err := checkDraft(&r, tt.videos)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := fieldOf(t, err); got != tt.field {
				t.Fatalf("expected error on %q, got %q (%v)", tt.field, got, err)
			}
		})
	}
}

func TestCheckDraftVideoLimit(t *testing.T) {
	r := readyVideoCourse()
	if err := checkDraft(&r, media.MaxVideos); err != nil {
		t.Fatalf("%d videos should be allowed: %v", media.MaxVideos, err)
	}
	if got := fieldOf(t, checkDraft(&r, media.MaxVideos+1)); got != "videos" {
		t.Fatalf("expected error on videos, got %q", got)
	}
}

func TestCheckDraftRefreshesPricing(t *testing.T) {
	r := readyWorkshop()
	r.OriginalPrice = ptr(150)
	r.DiscountedPrice = ptr(120)
	r.DiscountPercent = ptr(99)

	if err := checkDraft(&r, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ptr(20), r.DiscountPercent); diff != "" {
		t.Fatalf("discount percent mismatch (-want +got):\n%s", diff)
	}

	r.DiscountedPrice = ptr(150)
	if err := checkDraft(&r, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DiscountedPrice != nil || r.DiscountPercent != nil {
		t.Fatalf("an equal discounted price should collapse to no discount, got %v / %v", r.DiscountedPrice, r.DiscountPercent)
	}
}

func TestApplyUp(t *testing.T) {
	r := readyWorkshop()
	r.OriginalPrice = ptr(100)
	r.DiscountedPrice = ptr(80)

	applyUp(&r, RequestUp{
		Title:         ptr("Advanced Go"),
		Format:        ptr(listing.Onsite),
		Address:       ptr("Main St 1"),
		ClearDiscount: true,
	})

	if r.Title != "Advanced Go" {
		t.Errorf("title not updated: %q", r.Title)
	}
	if r.Description != "Channels and goroutines" {
		t.Errorf("untouched field changed: %q", r.Description)
	}
	if r.Format != listing.Onsite || r.OnlineURL != nil {
		t.Errorf("switching to onsite should drop the online url, got %s / %v", r.Format, r.OnlineURL)
	}
	if r.Address == nil || *r.Address != "Main St 1" {
		t.Errorf("address not set: %v", r.Address)
	}
	if r.DiscountedPrice != nil {
		t.Errorf("discount should be cleared, got %v", *r.DiscountedPrice)
	}
	if r.OriginalPrice == nil || *r.OriginalPrice != 100 {
		t.Errorf("original price should be kept, got %v", r.OriginalPrice)
	}
}

func TestStatusEditable(t *testing.T) {
	for _, s := range []Status{Draft, PendingPayment, Paid} {
		if !s.Editable() {
			t.Errorf("%s should be editable", s)
		}
	}
	for _, s := range []Status{PendingApproval, Approved, Rejected} {
		if s.Editable() {
			t.Errorf("%s should not be editable", s)
		}
	}
}
