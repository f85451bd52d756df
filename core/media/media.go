// Package media stores the ordered video and material children of requests
// and listings. A collection is always written as a whole: Replace deletes
// the previous rows and inserts the new ones inside the caller's transaction.
package media

import (
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/validate"
)

// MaxVideos bounds the videos of a single course.
const MaxVideos = 25

// Owner selects which parent a collection belongs to.
type Owner string

const (
	Request Owner = "request"
	Listing Owner = "listing"
)

func (o Owner) videoTable() string    { return string(o) + "_videos" }
func (o Owner) materialTable() string { return string(o) + "_materials" }

func (o Owner) valid() error {
	if o != Request && o != Listing {
		return fmt.Errorf("unknown media owner %q", string(o))
	}
	return nil
}

type Video struct {
	ID        string    `json:"id" db:"video_id"`
	OwnerID   string    `json:"-" db:"owner_id"`
	Index     int       `json:"index" db:"index"`
	Title     string    `json:"title" db:"title"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type VideoIn struct {
	Title string `json:"title"`
	URL   string `json:"url" validate:"required,url"`
}

type Material struct {
	ID        string    `json:"id" db:"material_id"`
	OwnerID   string    `json:"-" db:"owner_id"`
	Index     int       `json:"index" db:"index"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type MaterialIn struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

// NewVideos turns an ordered payload into rows owned by ownerID.
func NewVideos(ownerID string, in []VideoIn, now time.Time) []Video {
	vs := make([]Video, 0, len(in))
	for i, v := range in {
		vs = append(vs, Video{
			ID:        validate.GenerateID(),
			OwnerID:   ownerID,
			Index:     i,
			Title:     v.Title,
			URL:       v.URL,
			CreatedAt: now,
		})
	}
	return vs
}

func NewMaterials(ownerID string, in []MaterialIn, now time.Time) []Material {
	ms := make([]Material, 0, len(in))
	for i, m := range in {
		ms = append(ms, Material{
			ID:        validate.GenerateID(),
			OwnerID:   ownerID,
			Index:     i,
			Name:      m.Name,
			URL:       m.URL,
			CreatedAt: now,
		})
	}
	return ms
}

// CopyVideos deep-copies vs under a new owner. The copies get fresh ids so
// the two collections never share rows.
func CopyVideos(vs []Video, ownerID string, now time.Time) []Video {
	out := make([]Video, 0, len(vs))
	for _, v := range vs {
		v.ID = validate.GenerateID()
		v.OwnerID = ownerID
		v.CreatedAt = now
		out = append(out, v)
	}
	return out
}

func CopyMaterials(ms []Material, ownerID string, now time.Time) []Material {
	out := make([]Material, 0, len(ms))
	for _, m := range ms {
		m.ID = validate.GenerateID()
		m.OwnerID = ownerID
		m.CreatedAt = now
		out = append(out, m)
	}
	return out
}
