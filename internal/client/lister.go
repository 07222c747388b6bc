package client

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Lister fetches the stored file names and renders them.
type Lister struct {
	api        *API
	display    ListDisplay
	downloader *Downloader
	logger     *zap.Logger
}

// NewLister builds a Lister whose entries select into downloader.
func NewLister(api *API, display ListDisplay, downloader *Downloader) *Lister {
	return &Lister{api: api, display: display, downloader: downloader}
}

// WithLogger overrides the diagnostic logger taken from the context.
func (l *Lister) WithLogger(logger *zap.Logger) *Lister {
	l.logger = logger
	return l
}

// Refresh clears the display, then fetches and appends one entry per name in
// server order. On failure the display is left cleared.
func (l *Lister) Refresh(ctx context.Context) error {
	logger := l.logger
	if logger == nil {
		logger = logutil.GetLogger(ctx)
	}

	l.display.Clear()

	files, err := l.api.ListFiles(ctx)
	if err != nil {
		logger.Error("list files failed", zap.String("host", l.api.Host()), zap.Error(err))
		return err
	}

	for _, name := range files {
		name := name
		l.display.Append(name, func(ctx context.Context) error {
			return l.downloader.Download(ctx, name)
		})
	}
	logger.Debug("file list refreshed", zap.Int("count", len(files)))
	return nil
}

var _ Refresher = (*Lister)(nil)
