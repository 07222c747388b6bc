package app

import (
	"context"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/filedrop/internal/config"
	"github.com/xxxsen/filedrop/internal/server"
	"github.com/xxxsen/filedrop/internal/storage"
)

// ServeCommand runs the storage service.
type ServeCommand struct {
	bind string
	srv  *server.Server
}

// NewServeCommand constructs the serve command.
func NewServeCommand() *ServeCommand {
	return &ServeCommand{}
}

// Name returns the command identifier.
func (c *ServeCommand) Name() string { return "serve" }

func (c *ServeCommand) Desc() string {
	return "Serve the upload, listing and retrieval endpoints plus the web page"
}

// Init registers CLI flags that affect the command.
func (c *ServeCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.bind, "bind", "", "HTTP listen address, overrides server.bind")
}

// PreRun opens the configured storage backend.
func (c *ServeCommand) PreRun(ctx context.Context) error {
	cfg := config.Global()
	if c.bind == "" {
		c.bind = cfg.Server.Bind
	}

	store := storage.DefaultClient()
	if store == nil {
		var err error
		store, err = storage.New(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		storage.SetDefaultClient(store)
	}

	srv, err := server.New(store, c.bind, cfg.Server.MaxMemory)
	if err != nil {
		return err
	}
	c.srv = srv
	logutil.GetLogger(ctx).Info("storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("bind", c.bind),
	)
	return nil
}

// Run blocks until ctx is cancelled.
func (c *ServeCommand) Run(ctx context.Context) error {
	return c.srv.Run(ctx)
}

// PostRun performs any necessary cleanup after execution.
func (c *ServeCommand) PostRun(ctx context.Context) error {
	return nil
}

func init() {
	RegisterRunner("serve", func() IRunner { return NewServeCommand() })
}
