// Package logger provides the structured logging interface used across vkbackup.
//
// It wraps zerolog. By default records go only to an append-only text
// file (vk_backup.log), one line per record:
//
//	2024-01-15T10:30:00+03:00 INFO Photo saved app=vkbackup destination=local file_name=12_2024-01-15.jpg
//
// Setting logging.console mirrors the records to stderr with colors.
//
// Basic Usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.GetLogger().WithField("run_id", runID)
//	log.WithError(err).Error("Failed to save photo")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to drop them.
package logger
