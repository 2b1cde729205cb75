package jobs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("job not found")
	ErrNoURL               = errors.New("no URL provided")
	ErrNoAction            = errors.New("select at least one action (Transcribe or Download)")
	ErrNoFile              = errors.New("no file provided")
	ErrNoFileSelected      = errors.New("no file selected")
	ErrAlreadyTranscribing = errors.New("already transcribing with this model")
	ErrFileGone            = errors.New("source file no longer exists")
	ErrNotAvailable        = errors.New("file not available")
	ErrFileMissing         = errors.New("file no longer exists")
	errMediaNotFound       = errors.New("download completed but file not found")
	ErrNoThumbnail         = errors.New("thumbnail not found")
)

// UnsupportedTypeError rejects an upload by extension.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

// Stage names a step of the job pipeline.
type Stage string

const (
	StageThumbnail  Stage = "thumbnail"
	StageDownload   Stage = "download"
	StageLocate     Stage = "locate"
	StageStore      Stage = "store"
	StageTranscribe Stage = "transcribe"
	StageTranscode  Stage = "transcode"
)

// StageError classifies a failure by the pipeline step that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
