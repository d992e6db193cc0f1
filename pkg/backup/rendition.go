package backup

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"vkbackup/pkg/vk"
)

// ErrNoSizes is returned for a photo without renditions
var ErrNoSizes = errors.New("photo has no sizes")

// sizeRank orders VK size types from smallest to largest. Some legacy
// renditions report 0×0, so the type breaks ties between equal areas.
var sizeRank = map[string]int{
	"s": 1, "m": 2, "x": 3, "o": 4, "p": 5,
	"q": 6, "r": 7, "y": 8, "z": 9, "w": 10,
}

// LargestSize returns the rendition with the largest width × height.
// Equal areas go to the higher size type, then to the earlier element.
func LargestSize(sizes []vk.Size) (vk.Size, error) {
	if len(sizes) == 0 {
		return vk.Size{}, ErrNoSizes
	}

	best := sizes[0]
	for _, s := range sizes[1:] {
		switch {
		case s.Area() > best.Area():
			best = s
		case s.Area() == best.Area() && sizeRank[s.Type] > sizeRank[best.Type]:
			best = s
		}
	}
	return best, nil
}

// Namer derives file names from like counts and upload dates. A name
// already handed out gets the photo id appended, so two photos of one
// run never share a file.
type Namer struct {
	location *time.Location
	used     map[string]bool
}

// NewNamer creates a namer formatting dates in loc; nil means local time
func NewNamer(loc *time.Location) *Namer {
	if loc == nil {
		loc = time.Local
	}
	return &Namer{location: loc, used: make(map[string]bool)}
}

// Name returns "<likes>_<YYYY-MM-DD>.jpg" or, on a repeat,
// "<likes>_<YYYY-MM-DD>_<photo id>.jpg"
func (n *Namer) Name(photo vk.Photo) string {
	base := fmt.Sprintf("%d_%s", photo.Likes.Count, photo.UploadedAt().In(n.location).Format("2006-01-02"))

	name := base + ".jpg"
	if n.used[name] {
		name = base + "_" + strconv.FormatInt(photo.ID, 10) + ".jpg"
	}
	n.used[name] = true
	return name
}
