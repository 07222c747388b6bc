package client

import "context"

// Downloader navigates to the retrieval URL of a stored file.
type Downloader struct {
	nav Navigator
}

// NewDownloader builds a Downloader.
func NewDownloader(nav Navigator) *Downloader {
	return &Downloader{nav: nav}
}

// Download navigates to "/files/" + name. The name is used verbatim:
// characters such as '?', '#' or '%' are not escaped and will produce a
// different target than intended.
func (d *Downloader) Download(ctx context.Context, name string) error {
	return d.nav.Navigate(ctx, RetrieveTarget(name))
}

// RetrieveTarget returns the unescaped retrieval path for name.
func RetrieveTarget(name string) string {
	return RetrievePath + name
}
