package app

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/pflag"

	"github.com/xxxsen/filedrop/internal/config"
)

// GetCommand retrieves a single stored file by name.
type GetCommand struct {
	name   string
	outDir string
	stdout io.Writer
	sess   *session
}

// NewGetCommand constructs the get command.
func NewGetCommand() *GetCommand {
	return &GetCommand{}
}

// Name returns the command identifier.
func (c *GetCommand) Name() string { return "get" }

// Desc describes the command for CLI help output.
func (c *GetCommand) Desc() string { return "Download a stored file into a local directory" }

// Init registers CLI flags that affect the command.
func (c *GetCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.name, "name", "", "stored file name")
	fst.StringVar(&c.outDir, "out", ".", "directory the file is saved into")
}

// PreRun validates flags and builds the client.
func (c *GetCommand) PreRun(ctx context.Context) error {
	if c.name == "" {
		return errors.New("get requires --name")
	}
	cfg := config.Global()
	sess, err := newSession(sessionOptions{
		host:    cfg.Client.Host,
		timeout: cfg.ClientTimeout(),
		outDir:  c.outDir,
		stdout:  c.stdout,
	})
	if err != nil {
		return err
	}
	c.sess = sess
	return nil
}

// Run navigates to the retrieval target of the name.
func (c *GetCommand) Run(ctx context.Context) error {
	return c.sess.downloader.Download(ctx, c.name)
}

// PostRun performs any necessary cleanup after execution.
func (c *GetCommand) PostRun(ctx context.Context) error {
	return nil
}

func init() {
	RegisterRunner("get", func() IRunner { return NewGetCommand() })
}
