// Package backup runs one photo backup: it fetches the photos of an
// album, picks the largest rendition of each, transfers it to the chosen
// destination and writes the per-user manifest.
//
// A failure to save one photo is logged and skipped. Only successfully
// saved photos are recorded in the manifest.
package backup
