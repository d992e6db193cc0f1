package backup

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"vkbackup/pkg/logger"
	"vkbackup/pkg/objectstore"
	"vkbackup/pkg/storage"
)

// Kind names a destination
type Kind string

const (
	KindLocal  Kind = "local"
	KindYandex Kind = "yandex"
	KindS3     Kind = "s3"
)

// Destination is a place photos can be backed up to
type Destination interface {
	Kind() Kind
	// Prepare creates whatever the destination needs for ownerID
	Prepare(ownerID int64) (Target, error)
}

// Target receives the photos of one user
type Target interface {
	// Location describes where the photos end up, for the user
	Location() string
	Save(photoURL, fileName string) error
}

func ownerDir(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}

// LocalDestination stores photos under <base>/<owner id>
type LocalDestination struct {
	baseDir string
	fetcher *storage.Fetcher
	logger  logger.Logger
}

// NewLocalDestination creates a local destination rooted at baseDir
func NewLocalDestination(baseDir string, fetcher *storage.Fetcher, log logger.Logger) *LocalDestination {
	return &LocalDestination{baseDir: baseDir, fetcher: fetcher, logger: log}
}

func (d *LocalDestination) Kind() Kind { return KindLocal }

func (d *LocalDestination) Prepare(ownerID int64) (Target, error) {
	mgr, err := storage.NewManager(filepath.Join(d.baseDir, ownerDir(ownerID)), d.fetcher, d.logger)
	if err != nil {
		return nil, err
	}
	return &localTarget{mgr: mgr}, nil
}

type localTarget struct {
	mgr *storage.Manager
}

func (t *localTarget) Location() string { return t.mgr.Dir() }

func (t *localTarget) Save(photoURL, fileName string) error {
	_, err := t.mgr.SaveFromURL(photoURL, fileName)
	return err
}

// YandexDestination uploads photos into <base folder>/<owner id> on
// Yandex.Disk
type YandexDestination struct {
	client     DiskClient
	baseFolder string
}

// NewYandexDestination creates a Yandex.Disk destination
func NewYandexDestination(client DiskClient, baseFolder string) *YandexDestination {
	return &YandexDestination{client: client, baseFolder: baseFolder}
}

func (d *YandexDestination) Kind() Kind { return KindYandex }

func (d *YandexDestination) Prepare(ownerID int64) (Target, error) {
	folder := path.Join(d.baseFolder, ownerDir(ownerID))
	if err := d.client.EnsurePath(folder); err != nil {
		return nil, err
	}
	return &yandexTarget{client: d.client, folder: folder}, nil
}

type yandexTarget struct {
	client DiskClient
	folder string
}

func (t *yandexTarget) Location() string { return "disk:/" + t.folder }

func (t *yandexTarget) Save(photoURL, fileName string) error {
	return t.client.UploadFromURL(photoURL, path.Join(t.folder, fileName))
}

// S3Destination puts photos under the key prefix <base folder>/<owner id>/
type S3Destination struct {
	store      ObjectStore
	baseFolder string
}

// NewS3Destination creates an S3 destination
func NewS3Destination(store ObjectStore, baseFolder string) *S3Destination {
	return &S3Destination{store: store, baseFolder: baseFolder}
}

func (d *S3Destination) Kind() Kind { return KindS3 }

func (d *S3Destination) Prepare(ownerID int64) (Target, error) {
	if err := d.store.EnsureBucket(); err != nil {
		return nil, err
	}
	return &s3Target{store: d.store, prefix: objectstore.Key(d.baseFolder, ownerDir(ownerID))}, nil
}

type s3Target struct {
	store  ObjectStore
	prefix string
}

func (t *s3Target) Location() string {
	return fmt.Sprintf("s3://%s/%s/", t.store.Bucket(), t.prefix)
}

func (t *s3Target) Save(photoURL, fileName string) error {
	return t.store.PutFromURL(photoURL, objectstore.Key(t.prefix, fileName))
}
