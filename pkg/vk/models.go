package vk

import (
	"encoding/json"
	"strconv"
	"time"
)

// AlbumRef identifies an album in photos.get: one of the system
// albums or a numeric album id
type AlbumRef string

const (
	AlbumProfile AlbumRef = "profile"
	AlbumWall    AlbumRef = "wall"
)

// AlbumID returns the reference for a user album
func AlbumID(id int64) AlbumRef {
	return AlbumRef(strconv.FormatInt(id, 10))
}

// IsSystem reports whether the album is one that needs no access check
func (a AlbumRef) IsSystem() bool {
	return a == AlbumProfile || a == AlbumWall
}

func (a AlbumRef) String() string {
	return string(a)
}

// Friend is an entry of friends.get
type Friend struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns "First Last"
func (f Friend) FullName() string {
	return f.FirstName + " " + f.LastName
}

// User is an entry of users.get
type User struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ScreenName string `json:"screen_name,omitempty"`
}

// Album is an entry of photos.getAlbums. System albums have negative ids.
type Album struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Size  int    `json:"size"`
}

// Ref returns the photos.get reference for the album
func (a Album) Ref() AlbumRef {
	switch a.ID {
	case -6:
		return AlbumProfile
	case -7:
		return AlbumWall
	default:
		return AlbumID(a.ID)
	}
}

// Size is one rendition of a photo
type Size struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Area returns width × height
func (s Size) Area() int64 {
	return int64(s.Width) * int64(s.Height)
}

// Likes holds the like counter of a photo
type Likes struct {
	Count int `json:"count"`
}

// Photo is an entry of photos.get with extended=1 and photo_sizes=1
type Photo struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	AlbumID int64  `json:"album_id"`
	Date    int64  `json:"date"`
	Sizes   []Size `json:"sizes"`
	Likes   Likes  `json:"likes"`
}

// UploadedAt returns the upload time
func (p Photo) UploadedAt() time.Time {
	return time.Unix(p.Date, 0)
}

// itemsResponse is the common {count, items} payload
type itemsResponse[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// apiError is the error object of the response envelope
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// envelope wraps every API response
type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}
