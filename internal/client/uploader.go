package client

import (
	"context"
	"errors"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	MsgSelectFile     = "Please select a file."
	MsgUploadOK       = "Upload successful!"
	MsgUploadRejected = "Failed to upload file."
)

// Uploader sends the selected file to the upload endpoint.
type Uploader struct {
	api       *API
	picker    FilePicker
	status    StatusDisplay
	alerter   Alerter
	refresher Refresher
	logger    *zap.Logger
}

// NewUploader builds an Uploader. refresher runs after every successful upload.
func NewUploader(api *API, picker FilePicker, status StatusDisplay, alerter Alerter, refresher Refresher) *Uploader {
	return &Uploader{
		api:       api,
		picker:    picker,
		status:    status,
		alerter:   alerter,
		refresher: refresher,
	}
}

// WithLogger overrides the diagnostic logger taken from the context.
func (u *Uploader) WithLogger(logger *zap.Logger) *Uploader {
	u.logger = logger
	return u
}

// Upload sends the first selected file. Every outcome is written to the
// status display (or the alerter when nothing is selected) before the error
// is returned, so callers may ignore it.
func (u *Uploader) Upload(ctx context.Context) error {
	logger := u.logger
	if logger == nil {
		logger = logutil.GetLogger(ctx)
	}

	files := u.picker.Files()
	if len(files) == 0 {
		u.alerter.Alert(MsgSelectFile)
		return ErrNoFileSelected
	}
	file := files[0]

	if err := u.send(ctx, file); err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.IsStatus() {
			u.status.SetStatus(MsgUploadRejected)
		} else {
			u.status.SetStatus(err.Error())
		}
		logger.Error("upload file failed", zap.String("file", file.Name), zap.Error(err))
		return err
	}

	u.status.SetStatus(MsgUploadOK)
	logger.Info("file uploaded", zap.String("file", file.Name))

	if u.refresher == nil {
		return nil
	}
	// refresh failures are reported by the refresher itself
	_ = u.refresher.Refresh(ctx)
	return nil
}

func (u *Uploader) send(ctx context.Context, file SelectedFile) error {
	rc, err := file.Open()
	if err != nil {
		return &RequestError{Op: "upload", Err: err}
	}
	defer rc.Close()
	return u.api.Upload(ctx, file.Name, rc)
}
