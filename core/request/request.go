package request

import (
	"time"

	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/media"
)

type Status string

const (
	Draft           Status = "DRAFT"
	PendingPayment  Status = "PENDING_PAYMENT"
	Paid            Status = "PAID"
	PendingApproval Status = "PENDING_APPROVAL"
	Approved        Status = "APPROVED"
	Rejected        Status = "REJECTED"
)

// Editable are the statuses in which the creator may still change fields.
var Editable = []Status{Draft, PendingPayment, Paid}

func (s Status) Editable() bool {
	for _, e := range Editable {
		if s == e {
			return true
		}
	}
	return false
}

func (s Status) valid() bool {
	switch s {
	case Draft, PendingPayment, Paid, PendingApproval, Approved, Rejected:
		return true
	}
	return false
}

type Request struct {
	ID        string `json:"id" db:"request_id"`
	CreatorID string `json:"creatorId" db:"creator_id"`

	listing.Content

	OriginalPrice   *int `json:"originalPrice" db:"original_price"`
	DiscountedPrice *int `json:"discountedPrice" db:"discounted_price"`
	DiscountPercent *int `json:"discountPercent" db:"discount_percent"`
	ListingDays     *int `json:"listingDays" db:"listing_days"`
	ListingFee      *int `json:"listingFee" db:"listing_fee"`
	Paid            bool `json:"paid" db:"paid"`

	Status          Status    `json:"status" db:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	Videos    []media.Video    `json:"videos" db:"-"`
	Materials []media.Material `json:"materials" db:"-"`
}

func (r Request) course() bool { return r.Kind == listing.Course }

type RequestNew struct {
	Kind     listing.Kind     `json:"kind" validate:"required,oneof=COURSE WORKSHOP MASTERCLASS"`
	Delivery listing.Delivery `json:"delivery" validate:"omitempty,oneof=LIVE VIDEO"`
	Category string           `json:"category"`
	Format   listing.Format   `json:"format" validate:"omitempty,oneof=ONLINE ONSITE"`

	Title           string `json:"title"`
	Description     string `json:"description"`
	Syllabus        string `json:"syllabus"`
	MentorFirstName string `json:"mentorFirstName"`
	MentorLastName  string `json:"mentorLastName"`
	MentorBio       string `json:"mentorBio"`

	TitleSecondary           string `json:"titleSecondary"`
	DescriptionSecondary     string `json:"descriptionSecondary"`
	SyllabusSecondary        string `json:"syllabusSecondary"`
	MentorFirstNameSecondary string `json:"mentorFirstNameSecondary"`
	MentorLastNameSecondary  string `json:"mentorLastNameSecondary"`
	MentorBioSecondary       string `json:"mentorBioSecondary"`

	ImageURL string `json:"imageUrl" validate:"omitempty,url"`

	OriginalPrice   *int `json:"originalPrice" validate:"omitempty,gte=0"`
	DiscountedPrice *int `json:"discountedPrice" validate:"omitempty,gte=0"`

	Date      *time.Time `json:"date"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	Address   *string `json:"address"`
	OnlineURL *string `json:"onlineUrl" validate:"omitempty,url"`

	Videos    []media.VideoIn    `json:"videos"`
	Materials []media.MaterialIn `json:"materials"`
}

// RequestUp carries a partial edit. Nil fields are left untouched; a non-nil
// Videos or Materials replaces the whole collection.
type RequestUp struct {
	Delivery *listing.Delivery `json:"delivery" validate:"omitempty,oneof=LIVE VIDEO"`
	Category *string           `json:"category"`
	Format   *listing.Format   `json:"format" validate:"omitempty,oneof=ONLINE ONSITE"`

	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Syllabus        *string `json:"syllabus"`
	MentorFirstName *string `json:"mentorFirstName"`
	MentorLastName  *string `json:"mentorLastName"`
	MentorBio       *string `json:"mentorBio"`

	TitleSecondary           *string `json:"titleSecondary"`
	DescriptionSecondary     *string `json:"descriptionSecondary"`
	SyllabusSecondary        *string `json:"syllabusSecondary"`
	MentorFirstNameSecondary *string `json:"mentorFirstNameSecondary"`
	MentorLastNameSecondary  *string `json:"mentorLastNameSecondary"`
	MentorBioSecondary       *string `json:"mentorBioSecondary"`

	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`

	OriginalPrice   *int `json:"originalPrice" validate:"omitempty,gte=0"`
	DiscountedPrice *int `json:"discountedPrice" validate:"omitempty,gte=0"`
	ClearDiscount   bool `json:"clearDiscount"`

	Date      *time.Time `json:"date"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	Address   *string `json:"address"`
	OnlineURL *string `json:"onlineUrl" validate:"omitempty,url"`

	Videos    *[]media.VideoIn    `json:"videos"`
	Materials *[]media.MaterialIn `json:"materials"`
}

type ListingIn struct {
	Days int `json:"listingDays" validate:"required,gte=1,lte=365"`
}

type RejectIn struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// Event records one status transition of a request.
type Event struct {
	ID        string    `json:"id" db:"event_id"`
	Seq       int64     `json:"-" db:"seq"`
	RequestID string    `json:"requestId" db:"request_id"`
	From      Status    `json:"from" db:"from_status"`
	To        Status    `json:"to" db:"to_status"`
	ActorID   string    `json:"actorId" db:"actor_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Submission is the outcome of a submit. Listing is set when the submission
// was approved in the same operation.
type Submission struct {
	Request Request          `json:"request"`
	Listing *listing.Listing `json:"listing,omitempty"`
}
