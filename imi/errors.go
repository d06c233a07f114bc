package imi

import (
	"errors"

	"imivdb/store"
)

// Error taxonomy from the error handling design: configuration errors
// fail the call and are never retried; corrupt-index and I/O errors fail
// the query and leave retry/rebuild to the caller; EmptyResult is not an
// error, it is a valid, empty top-K.
var (
	// ErrInvalidConfig: D not even; C, nprobe, top_k non-positive;
	// pruning_factor > C^2.
	ErrInvalidConfig = errors.New("imi: invalid config")
	// ErrIndexNotReady: query issued before the engine reached Populated
	// or Loaded.
	ErrIndexNotReady = errors.New("imi: index not ready")
	// ErrCorruptIndex: offset table length != C^2, or (start+length)
	// exceeds the id-run file size, or total id count != N.
	ErrCorruptIndex = errors.New("imi: corrupt index")
	// ErrIoError: a read failed against the vector store or a
	// memory-mapped index file. Aliases store.ErrIoError so callers can
	// errors.Is against either imi.ErrIoError or store.ErrIoError for the
	// same failure.
	ErrIoError = store.ErrIoError
)
