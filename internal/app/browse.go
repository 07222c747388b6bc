package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/filedrop/internal/config"
)

const browseHelp = "enter a number to download, u <path> to upload, r to refresh, q to quit"

// BrowseCommand is an interactive rendition of the page: the listing is
// printed once on start and each numbered entry downloads when chosen.
type BrowseCommand struct {
	outDir string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   sessionOptions
}

// NewBrowseCommand constructs the browse command.
func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{}
}

// Name returns the command identifier.
func (c *BrowseCommand) Name() string { return "browse" }

// Desc describes the command for CLI help output.
func (c *BrowseCommand) Desc() string {
	return "Interactively list, upload and download files"
}

// Init registers CLI flags that affect the command.
func (c *BrowseCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.outDir, "out", ".", "directory downloads are saved into")
}

// PreRun resolves the client options.
func (c *BrowseCommand) PreRun(ctx context.Context) error {
	if c.stdin == nil {
		c.stdin = os.Stdin
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	cfg := config.Global()
	c.opts = sessionOptions{
		host:    cfg.Client.Host,
		timeout: cfg.ClientTimeout(),
		outDir:  c.outDir,
		stdout:  c.stdout,
		stderr:  c.stderr,
	}
	if strings.TrimSpace(c.opts.host) == "" {
		return errNoHost
	}
	return nil
}

// Run shows the list and processes commands until q or end of input.
func (c *BrowseCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	sess, err := newSession(c.opts)
	if err != nil {
		return err
	}

	// The initial listing mirrors the page load; a failure is reported and
	// the loop keeps going so the user can retry with r.
	if err := sess.lister.Refresh(ctx); err != nil {
		fmt.Fprintf(c.stdout, "list failed: %v\n", err)
	}
	fmt.Fprintln(c.stdout, browseHelp)

	scanner := bufio.NewScanner(c.stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "q":
			return nil
		case line == "r":
			if err := sess.lister.Refresh(ctx); err != nil {
				fmt.Fprintf(c.stdout, "list failed: %v\n", err)
			}
		case line == "u" || strings.HasPrefix(line, "u "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "u"))
			if err := sess.uploaderFor(path).Upload(ctx); err != nil {
				logger.Debug("browse upload did not complete", zap.Error(err))
			}
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(c.stdout, browseHelp)
				continue
			}
			if err := sess.list.Select(ctx, n); err != nil {
				fmt.Fprintf(c.stdout, "download failed: %v\n", err)
			}
		}
	}
	return scanner.Err()
}

// PostRun performs any necessary cleanup after execution.
func (c *BrowseCommand) PostRun(ctx context.Context) error {
	return nil
}

func init() {
	RegisterRunner("browse", func() IRunner { return NewBrowseCommand() })
}
