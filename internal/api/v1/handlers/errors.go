package handlers

import (
	"errors"
	"fmt"

	apierrors "videomasa/internal/api/errors"
	"videomasa/internal/app/jobs"
)

const goneMessage = "Source file was cleaned up. Resubmit the URL to transcribe with a different model."

// toAPIError maps job errors onto the messages the UI shows. Unknown errors pass
// through unchanged and end up as a 500.
func toAPIError(err error) error {
	var unsupported *jobs.UnsupportedTypeError
	var stage *jobs.StageError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, jobs.ErrNotFound):
		return apierrors.NewNotFoundError("Job")
	case errors.Is(err, jobs.ErrNoURL):
		return apierrors.NewBadRequestError("No URL provided")
	case errors.Is(err, jobs.ErrNoAction):
		return apierrors.NewBadRequestError("Select at least one action (Transcribe or Download)")
	case errors.Is(err, jobs.ErrNoFile):
		return apierrors.NewBadRequestError("No file provided")
	case errors.Is(err, jobs.ErrNoFileSelected):
		return apierrors.NewBadRequestError("No file selected")
	case errors.As(err, &unsupported):
		return apierrors.NewBadRequestError(fmt.Sprintf("Unsupported file type: %s", unsupported.Ext))
	case errors.Is(err, jobs.ErrAlreadyTranscribing):
		return apierrors.NewBadRequestError("Already transcribing with this model")
	case errors.Is(err, jobs.ErrFileGone):
		return apierrors.NewGoneError(goneMessage)
	case errors.Is(err, jobs.ErrNotAvailable):
		return apierrors.NewNotFoundMessage("File not available")
	case errors.Is(err, jobs.ErrFileMissing):
		return apierrors.NewNotFoundMessage("File no longer exists")
	case errors.Is(err, jobs.ErrNoThumbnail):
		return apierrors.NewNotFoundMessage("Thumbnail not found")
	case errors.As(err, &stage) && stage.Stage == jobs.StageTranscode:
		return apierrors.NewInternalError("MP3 conversion failed")
	default:
		return err
	}
}
