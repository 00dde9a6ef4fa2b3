package model

import (
	"io"
	"sort"
)

// DateLayout is the calendar date format the vacations API uses for
// startDate and endDate.
const DateLayout = "2006-01-02"

// Vacation is a bookable trip as returned by GET /vacations.
type Vacation struct {
	ID          int64   `json:"id"`
	CountryID   int64   `json:"countryId"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Price       float64 `json:"price"`
	ImageName   string  `json:"imageName,omitempty"`
	LikesCount  int     `json:"likesCount,omitempty"`
}

// Country is one entry of GET /countries.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VacationInput is the create form.  All fields but ImageName are required.
type VacationInput struct {
	CountryID   int64   `json:"countryId" form:"countryId"`
	Description string  `json:"description" form:"description"`
	StartDate   string  `json:"startDate" form:"startDate"`
	EndDate     string  `json:"endDate" form:"endDate"`
	Price       float64 `json:"price" form:"price"`
	ImageName   string  `json:"imageName,omitempty" form:"imageName"`
}

// VacationPatch is the edit form.  Nil fields are left unchanged upstream.
type VacationPatch struct {
	CountryID   *int64   `json:"countryId,omitempty"`
	Description *string  `json:"description,omitempty"`
	StartDate   *string  `json:"startDate,omitempty"`
	EndDate     *string  `json:"endDate,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageName   *string  `json:"imageName,omitempty"`
}

// ImageFile is an uploaded vacation picture.  When present, create and
// update requests are sent as multipart/form-data instead of JSON.
type ImageFile struct {
	Filename string
	Content  io.Reader
}

// Likes is the body of GET /users/:id/likes.
type Likes struct {
	LikedVacationIDs []int64 `json:"likedVacationIds"`
}

// LikeSet is the set of vacation ids the current user has liked.
type LikeSet map[int64]struct{}

// NewLikeSet builds a LikeSet from a list of ids; duplicates collapse.
func NewLikeSet(ids ...int64) LikeSet {
	s := make(LikeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id was liked.
func (s LikeSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Add marks id as liked.
func (s LikeSet) Add(id int64) { s[id] = struct{}{} }

// Remove forgets id.  Removing an id that was never liked is a no-op.
func (s LikeSet) Remove(id int64) { delete(s, id) }

// IDs returns the liked ids in ascending order.
func (s LikeSet) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
