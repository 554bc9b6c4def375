package export

import "errors"

var (
	// ErrCaptureFailed marks a fatal raster capture failure. The export is
	// aborted; the caller may retry the whole operation.
	ErrCaptureFailed = errors.New("raster capture failed")

	// ErrPaginationFailed marks a degenerate raster or page format.
	ErrPaginationFailed = errors.New("pagination failed")
)
