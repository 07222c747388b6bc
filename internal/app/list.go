package app

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"github.com/xxxsen/filedrop/internal/config"
)

// ListCommand prints the stored files as a numbered list.
type ListCommand struct {
	stdout io.Writer
	sess   *session
}

func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func (c *ListCommand) Name() string { return "ls" }

func (c *ListCommand) Desc() string { return "List the files held by the service" }

func (c *ListCommand) Init(fst *pflag.FlagSet) {}

func (c *ListCommand) PreRun(ctx context.Context) error {
	cfg := config.Global()
	sess, err := newSession(sessionOptions{
		host:    cfg.Client.Host,
		timeout: cfg.ClientTimeout(),
		stdout:  c.stdout,
	})
	if err != nil {
		return err
	}
	c.sess = sess
	return nil
}

func (c *ListCommand) Run(ctx context.Context) error {
	return c.sess.lister.Refresh(ctx)
}

func (c *ListCommand) PostRun(ctx context.Context) error {
	return nil
}

func init() {
	RegisterRunner("ls", func() IRunner { return NewListCommand() })
}
