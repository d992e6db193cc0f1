// Package storage writes backed-up photos to the local filesystem.
//
// A Manager owns one output directory (created with its parents on
// construction) and writes every photo through a temporary file followed by
// an atomic rename, so an interrupted run never leaves a half-written .jpg
// behind. Fetcher streams photo bytes over HTTP; it is shared with the
// object store destination.
//
// Usage:
//
//	fetcher := storage.NewFetcher(nil, log)
//	manager, err := storage.NewManager("local_backup/12345", fetcher, log)
//	if err != nil {
//	    return err
//	}
//	path, err := manager.SaveFromURL(size.URL, "17_2024-01-15.jpg")
package storage
