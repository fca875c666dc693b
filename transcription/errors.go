package transcription

import (
	"github.com/kbukum/memoscribe/errors"
)

// User-facing messages.
const (
	MsgMissingFilename = "Uploaded file must have a filename."
	MsgEmptyFile       = "The uploaded file is empty."
)

// IsValidation reports whether err is a rejected upload.
func IsValidation(err error) bool {
	return errors.HasCode(err, errors.ErrCodeInvalidInput)
}

// IsResourceUnavailable reports whether err is a failed model load.
func IsResourceUnavailable(err error) bool {
	return errors.HasCode(err, errors.ErrCodeResourceUnavailable)
}

// IsInference reports whether err is a failed model run.
func IsInference(err error) bool {
	return errors.HasCode(err, errors.ErrCodeInferenceFailed)
}

// IsExtraction reports whether err is a model run without usable text.
func IsExtraction(err error) bool {
	return errors.HasCode(err, errors.ErrCodeExtractionFailed)
}
