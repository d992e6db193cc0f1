package backup

import "vkbackup/pkg/vk"

// PhotoSource lists the photos of an album; *vk.Client satisfies it
type PhotoSource interface {
	GetPhotos(ownerID int64, album vk.AlbumRef, count int) ([]vk.Photo, error)
	GetAllPhotos(ownerID int64, album vk.AlbumRef) ([]vk.Photo, error)
}

// DiskClient is the part of *yadisk.Client used by the Yandex destination
type DiskClient interface {
	EnsurePath(path string) error
	UploadFromURL(remoteURL, path string) error
}

// ObjectStore is the part of *objectstore.Store used by the S3 destination
type ObjectStore interface {
	Bucket() string
	EnsureBucket() error
	PutFromURL(remoteURL, key string) error
}

// Progress receives per-photo updates during a run
type Progress interface {
	Advance(name string)
	Fail(name string, err error)
	Finish()
}

// ProgressFactory creates the progress reporter of one run
type ProgressFactory func(label string, total int) Progress

type nopProgress struct{}

func (nopProgress) Advance(string)     {}
func (nopProgress) Fail(string, error) {}
func (nopProgress) Finish()            {}
