package backup

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	vkerrors "vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/manifest"
	"vkbackup/pkg/vk"
)

// DefaultTopCount is the number of photos a Top scope fetches when no
// count is given
const DefaultTopCount = 5

// ErrNoPhotos is returned when the album is empty or not accessible
var ErrNoPhotos = errors.New("no photos found: album is empty or not accessible")

// Scope selects how many photos of the album are backed up
type Scope struct {
	All bool
	// Top is the number of photos fetched when All is false
	Top int
}

// Request describes one backup run
type Request struct {
	OwnerID     int64
	Album       vk.AlbumRef
	Scope       Scope
	Destination Kind
}

// Result summarises a finished run
type Result struct {
	RunID        string
	Total        int
	Saved        int
	Failed       int
	ManifestPath string
	Location     string
	Duration     time.Duration
}

// Options configures a Pipeline
type Options struct {
	// ManifestDir receives photos_info_<owner>.json; empty means "."
	ManifestDir string
	// TopCount is used when a request asks for the top photos without a count
	TopCount int
	// Location is the time zone of the dates in file names
	Location *time.Location
	Progress ProgressFactory
}

// Pipeline runs backups from one photo source to the registered
// destinations
type Pipeline struct {
	source       PhotoSource
	destinations map[Kind]Destination
	opts         Options
	logger       logger.Logger
}

// NewPipeline creates a pipeline. A nil log uses the global logger.
func NewPipeline(source PhotoSource, opts Options, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.ManifestDir == "" {
		opts.ManifestDir = "."
	}
	if opts.TopCount <= 0 {
		opts.TopCount = DefaultTopCount
	}

	return &Pipeline{
		source:       source,
		destinations: make(map[Kind]Destination),
		opts:         opts,
		logger:       log.WithField("component", "backup"),
	}
}

// AddDestination registers d, replacing any destination of the same kind
func (p *Pipeline) AddDestination(d Destination) {
	p.destinations[d.Kind()] = d
}

// HasDestination reports whether a destination of kind is registered
func (p *Pipeline) HasDestination(kind Kind) bool {
	_, ok := p.destinations[kind]
	return ok
}

// TopCount returns the count used for Top scopes without an explicit count
func (p *Pipeline) TopCount() int {
	return p.opts.TopCount
}

// Run performs one backup. Photos that fail to transfer are skipped; the
// manifest lists only saved photos. ErrNoPhotos is returned before
// anything is created when the album yields no photos or may not be read.
func (p *Pipeline) Run(req Request) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	log := p.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"owner_id":    req.OwnerID,
		"album":       req.Album.String(),
		"destination": string(req.Destination),
	})

	dest, ok := p.destinations[req.Destination]
	if !ok {
		return nil, fmt.Errorf("destination %q is not configured", req.Destination)
	}

	photos, err := p.fetch(req)
	if vkerrors.IsAccessDenied(err) {
		log.WithError(err).Warn("No access to photos")
		return nil, ErrNoPhotos
	}
	if err != nil {
		log.WithError(err).Error("Failed to fetch photos")
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	if len(photos) == 0 {
		log.Warn("No photos to back up")
		return nil, ErrNoPhotos
	}
	result.Total = len(photos)

	log.InfoWithFields("Backup started", map[string]interface{}{
		"photos": len(photos),
		"all":    req.Scope.All,
	})

	target, err := dest.Prepare(req.OwnerID)
	if err != nil {
		log.WithError(err).Error("Failed to prepare destination")
		return nil, fmt.Errorf("failed to prepare %s destination: %w", dest.Kind(), err)
	}
	result.Location = target.Location()

	entries := p.transfer(log, req.OwnerID, photos, target, result)

	result.ManifestPath, err = manifest.Write(p.opts.ManifestDir, req.OwnerID, entries)
	if err != nil {
		log.WithError(err).Error("Failed to write manifest")
		return result, err
	}
	result.Duration = time.Since(start)

	log.InfoWithFields("Backup finished", map[string]interface{}{
		"saved":       result.Saved,
		"failed":      result.Failed,
		"manifest":    result.ManifestPath,
		"location":    result.Location,
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result, nil
}

func (p *Pipeline) fetch(req Request) ([]vk.Photo, error) {
	if req.Scope.All {
		return p.source.GetAllPhotos(req.OwnerID, req.Album)
	}

	count := req.Scope.Top
	if count <= 0 {
		count = p.opts.TopCount
	}
	return p.source.GetPhotos(req.OwnerID, req.Album, count)
}

// transfer saves every photo to target and returns the manifest entries
// of the saved ones
func (p *Pipeline) transfer(log logger.Logger, ownerID int64, photos []vk.Photo, target Target, result *Result) []manifest.Entry {
	progress := p.newProgress(fmt.Sprintf("id%d", ownerID), len(photos))
	defer progress.Finish()

	namer := NewNamer(p.opts.Location)
	entries := make([]manifest.Entry, 0, len(photos))

	for i, photo := range photos {
		size, err := LargestSize(photo.Sizes)
		if err != nil {
			log.WithError(err).WithField("photo_id", photo.ID).Warn("Skipping photo")
			result.Failed++
			progress.Fail(fmt.Sprintf("photo %d", photo.ID), err)
			continue
		}

		name := namer.Name(photo)
		err = target.Save(size.URL, name)
		logger.LogPhotoSaved(log.WithField("photo_id", photo.ID), target.Location(), name, err)
		if err != nil {
			result.Failed++
			progress.Fail(name, err)
			continue
		}

		entries = append(entries, manifest.FromSize(name, size))
		result.Saved++
		progress.Advance(name)
		logger.LogBackupProgress(log, ownerID, i+1, len(photos))
	}

	return entries
}

func (p *Pipeline) newProgress(label string, total int) Progress {
	if p.opts.Progress == nil {
		return nopProgress{}
	}
	return p.opts.Progress(label, total)
}
