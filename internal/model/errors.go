package model

import "errors"

// Error taxonomy shared by every component. Operations wrap one of these
// sentinels so callers can classify failures with errors.Is and decide
// whether to abort, report and continue, or degrade silently.
var (
	// ErrConfiguration marks invalid or missing export settings. Fatal to
	// the requested operation, reported to the user, never fatal to the
	// session.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInference marks a segmentation model or runtime failure. Reported
	// per image; a batch continues with the remaining images.
	ErrInference = errors.New("inference failed")

	// ErrFilesystem marks permission or path conflicts while preparing
	// directories or writing artifacts. Reported per image; a batch
	// continues with the remaining images.
	ErrFilesystem = errors.New("filesystem error")
)
