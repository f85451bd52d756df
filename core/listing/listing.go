package listing

import (
	"time"

	"github.com/irsalhamdi/course-listing/core/locale"
	"github.com/irsalhamdi/course-listing/core/media"
)

type Kind string

const (
	Course      Kind = "COURSE"
	Workshop    Kind = "WORKSHOP"
	Masterclass Kind = "MASTERCLASS"
)

type Delivery string

const (
	Live  Delivery = "LIVE"
	Video Delivery = "VIDEO"
)

type Format string

const (
	Online Format = "ONLINE"
	Onsite Format = "ONSITE"
)

type Status string

const (
	Active   Status = "ACTIVE"
	Expiring Status = "EXPIRING"
	Expired  Status = "EXPIRED"
	Archived Status = "ARCHIVED"
)

// ExpiringWindow is how long before its end a listing is flagged as expiring.
const ExpiringWindow = 24 * time.Hour

// Content is the classification, localized text, placement and schedule a
// request carries and a listing freezes at promotion.
type Content struct {
	Kind     Kind     `json:"kind" db:"kind"`
	Delivery Delivery `json:"delivery,omitempty" db:"delivery"`
	Category string   `json:"category" db:"category"`
	Format   Format   `json:"format" db:"format"`

	Title           string `json:"title" db:"title"`
	Description     string `json:"description" db:"description"`
	Syllabus        string `json:"syllabus,omitempty" db:"syllabus"`
	MentorFirstName string `json:"mentorFirstName,omitempty" db:"mentor_first_name"`
	MentorLastName  string `json:"mentorLastName,omitempty" db:"mentor_last_name"`
	MentorBio       string `json:"mentorBio,omitempty" db:"mentor_bio"`

	TitleSecondary           string `json:"titleSecondary,omitempty" db:"title_secondary"`
	DescriptionSecondary     string `json:"descriptionSecondary,omitempty" db:"description_secondary"`
	SyllabusSecondary        string `json:"syllabusSecondary,omitempty" db:"syllabus_secondary"`
	MentorFirstNameSecondary string `json:"mentorFirstNameSecondary,omitempty" db:"mentor_first_name_secondary"`
	MentorLastNameSecondary  string `json:"mentorLastNameSecondary,omitempty" db:"mentor_last_name_secondary"`
	MentorBioSecondary       string `json:"mentorBioSecondary,omitempty" db:"mentor_bio_secondary"`

	ImageURL string `json:"imageUrl" db:"image_url"`

	Date      *time.Time `json:"date,omitempty" db:"date"`
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`

	Address   *string `json:"address,omitempty" db:"address"`
	OnlineURL *string `json:"onlineUrl,omitempty" db:"online_url"`
}

func (c Content) Secondary() locale.Secondary {
	return locale.Secondary{
		Title:           c.TitleSecondary,
		Description:     c.DescriptionSecondary,
		Syllabus:        c.SyllabusSecondary,
		MentorFirstName: c.MentorFirstNameSecondary,
		MentorLastName:  c.MentorLastNameSecondary,
	}
}

// SlugTitle is the title a slug is derived from.
func (c Content) SlugTitle() string {
	return locale.Pick(c.TitleSecondary, c.Title)
}

type Listing struct {
	ID        string `json:"id" db:"listing_id"`
	RequestID string `json:"requestId" db:"request_id"`
	CreatorID string `json:"creatorId" db:"creator_id"`
	Slug      string `json:"slug" db:"slug"`

	Content

	OriginalPrice   *int `json:"originalPrice" db:"original_price"`
	DiscountedPrice *int `json:"discountedPrice" db:"discounted_price"`
	DiscountPercent *int `json:"discountPercent" db:"discount_percent"`
	ListingDays     *int `json:"listingDays,omitempty" db:"listing_days"`

	Status        Status     `json:"status" db:"status"`
	ListingEndsAt *time.Time `json:"listingEndsAt" db:"listing_ends_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	Videos    []media.Video    `json:"videos" db:"-"`
	Materials []media.Material `json:"materials" db:"-"`
}

type ExtendIn struct {
	Days int `json:"days" validate:"required,gte=1,lte=365"`
}

// EndsAt computes the end of a listing promoted at now. Listings without a
// positive duration are not time-boxed and get nil.
func EndsAt(now time.Time, days *int) *time.Time {
	if days == nil || *days <= 0 {
		return nil
	}
	t := now.Add(time.Duration(*days) * 24 * time.Hour)
	return &t
}

// NextStatus is the status a sweep at now assigns to a listing. Only ACTIVE
// and EXPIRING listings with an end move, and only forward.
func NextStatus(prev Status, endsAt *time.Time, now time.Time) Status {
	if endsAt == nil {
		return prev
	}

	next := prev
	if next == Active && !endsAt.After(now.Add(ExpiringWindow)) {
		next = Expiring
	}
	if next == Expiring && !endsAt.After(now) {
		next = Expired
	}
	return next
}

// Extended returns the new end of a listing extended by days at now: the
// days are added to the current end, or to now when that end has passed.
func Extended(endsAt time.Time, now time.Time, days int) time.Time {
	base := endsAt
	if now.After(base) {
		base = now
	}
	return base.Add(time.Duration(days) * 24 * time.Hour)
}
