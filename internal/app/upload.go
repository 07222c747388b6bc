package app

import (
	"context"
	"io"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/filedrop/internal/config"
)

// UploadCommand sends one local file to the service and prints the refreshed listing.
type UploadCommand struct {
	file   string
	stdout io.Writer
	stderr io.Writer
	sess   *session
}

// NewUploadCommand constructs an executable upload command.
func NewUploadCommand() *UploadCommand {
	return &UploadCommand{}
}

// Name returns the command identifier.
func (c *UploadCommand) Name() string { return "upload" }

// Desc describes the command for CLI help output.
func (c *UploadCommand) Desc() string {
	return "Upload a file and show the updated file list"
}

// Init registers CLI flags that affect the command.
func (c *UploadCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.file, "file", "", "path of the file to upload")
}

// PreRun connects the client handlers to the terminal.
func (c *UploadCommand) PreRun(ctx context.Context) error {
	cfg := config.Global()
	sess, err := newSession(sessionOptions{
		host:    cfg.Client.Host,
		timeout: cfg.ClientTimeout(),
		file:    c.file,
		stdout:  c.stdout,
		stderr:  c.stderr,
	})
	if err != nil {
		return err
	}
	c.sess = sess
	logutil.GetLogger(ctx).Debug("upload prepared", zap.String("host", sess.api.Host()), zap.String("file", c.file))
	return nil
}

// Run executes the upload.
func (c *UploadCommand) Run(ctx context.Context) error {
	return c.sess.uploader.Upload(ctx)
}

// PostRun performs any necessary cleanup after execution.
func (c *UploadCommand) PostRun(ctx context.Context) error {
	return nil
}

func init() {
	RegisterRunner("upload", func() IRunner { return NewUploadCommand() })
}
