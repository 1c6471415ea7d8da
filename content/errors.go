package content

import "fmt"

// ExtractionError means an adapter could not produce content for a link.
type ExtractionError struct {
	Platform Kind
	Cause    string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Platform, e.Cause, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Platform, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractionf builds an ExtractionError wrapping err (which may be nil).
func Extractionf(k Kind, err error, format string, args ...any) *ExtractionError {
	return &ExtractionError{Platform: k, Cause: fmt.Sprintf(format, args...), Err: err}
}

// MediaDownloadError is a failed transfer of a media resource to local disk.
type MediaDownloadError struct {
	URL string
	Err error
}

func (e *MediaDownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *MediaDownloadError) Unwrap() error { return e.Err }

// MuxError is a failure while combining or repackaging media streams.
type MuxError struct {
	Stage string
	Err   error
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("mux %s: %v", e.Stage, e.Err)
}

func (e *MuxError) Unwrap() error { return e.Err }
