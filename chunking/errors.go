package chunking

import "errors"

var (
	// ErrSegmenterRequired is returned when a topic segmenter is not provided.
	ErrSegmenterRequired = errors.New("topic segmenter required")

	// ErrSegmentationFailed wraps a segmenter failure during chunking.
	ErrSegmentationFailed = errors.New("topic segmentation failed")
)
