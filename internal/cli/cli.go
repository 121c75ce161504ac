// Package cli implements the line-oriented command interpreter in front of
// the mapping engine. It owns all input validation and output formatting;
// the engine only ever sees well-formed arguments.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shreecharana24/URL-shortner/internal/models"
	"github.com/Shreecharana24/URL-shortner/internal/service"
	"github.com/Shreecharana24/URL-shortner/internal/shortcode"
	"github.com/Shreecharana24/URL-shortner/internal/storage"
)

// ErrClosed is returned by Run after a clean shutdown: the exit command,
// end of input, or context cancellation.
var ErrClosed = errors.New("command interpreter closed")

// URLService is the engine surface the interpreter drives.
type URLService interface {
	ShortenURL(ctx context.Context, originalURL string) (*models.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error)
	DeleteURL(ctx context.Context, shortCode string) error
	ListURLs(ctx context.Context) ([]*models.URL, error)
	Stats(ctx context.Context) (service.Occupancy, error)
}

const commandsHelp = "Commands: gen <long_url>, get <short_code>, del <short_code>, list, count, exit"

// codeTag validates a short code: exactly the fixed length, base62 only.
var codeTag = fmt.Sprintf("required,len=%d,alphanum", shortcode.CodeLength)

type CLI struct {
	svc          URLService
	in           io.Reader
	out          io.Writer
	validate     *validator.Validate
	logger       *zap.SugaredLogger
	maxURLLength int
}

func New(svc URLService, in io.Reader, out io.Writer, maxURLLength int, logger *zap.SugaredLogger) *CLI {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &CLI{
		svc:          svc,
		in:           in,
		out:          out,
		validate:     validator.New(),
		logger:       logger.Named("cli"),
		maxURLLength: maxURLLength,
	}
}

// Run reads commands until exit, end of input, or ctx cancellation, and
// always finishes with ErrClosed unless reading input itself failed.
func (c *CLI) Run(ctx context.Context) error {
	const op = "cli.CLI.Run"

	fmt.Fprintln(c.out, "URL Shortener CLI")
	fmt.Fprintln(c.out, commandsHelp)

	scanner := bufio.NewScanner(c.in)
	for {
		if ctx.Err() != nil {
			return ErrClosed
		}

		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("%s: failed to read input: %w", op, err)
			}
			return ErrClosed
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if quit := c.dispatch(ctx, line); quit {
			fmt.Fprintln(c.out, "Exiting.")
			return ErrClosed
		}
	}
}

// dispatch runs a single command line and reports whether to quit.
func (c *CLI) dispatch(ctx context.Context, line string) bool {
	cmd, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch cmd {
	case "gen":
		c.generate(ctx, arg)
	case "get":
		c.resolve(ctx, arg)
	case "del":
		c.delete(ctx, arg)
	case "list":
		c.list(ctx)
	case "count":
		c.count(ctx)
	case "help":
		fmt.Fprintln(c.out, commandsHelp)
	case "exit":
		return true
	default:
		fmt.Fprintln(c.out, "Unknown command.")
	}

	return false
}

func (c *CLI) generate(ctx context.Context, rawURL string) {
	const op = "cli.CLI.generate"

	if rawURL == "" {
		fmt.Fprintln(c.out, "Usage: gen <long_url>")
		return
	}
	if len(rawURL) > c.maxURLLength {
		fmt.Fprintf(c.out, "Error: URL is too long! Maximum allowed length is %d characters.\n", c.maxURLLength)
		return
	}
	if err := c.validate.Var(rawURL, "required,url"); err != nil {
		fmt.Fprintln(c.out, "Error: invalid URL.")
		return
	}

	rec, err := c.svc.ShortenURL(ctx, rawURL)
	if err != nil {
		if errors.Is(err, service.ErrCapacityExhausted) {
			fmt.Fprintln(c.out, "Error: short code space exhausted.")
			return
		}

		c.logger.Errorw("failed to shorten url", "op", op, "err", err)
		fmt.Fprintln(c.out, "Error: internal error.")
		return
	}

	fmt.Fprintf(c.out, "Short code: %s\n", rec.ShortCode)
}

func (c *CLI) resolve(ctx context.Context, code string) {
	const op = "cli.CLI.resolve"

	if code == "" {
		fmt.Fprintln(c.out, "Usage: get <short_code>")
		return
	}
	if err := c.validate.Var(code, codeTag); err != nil {
		fmt.Fprintln(c.out, "Error: invalid short code.")
		return
	}

	rec, err := c.svc.ResolveShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			fmt.Fprintln(c.out, "Not found.")
			return
		}

		c.logger.Errorw("failed to resolve short code", "op", op, "err", err)
		fmt.Fprintln(c.out, "Error: internal error.")
		return
	}

	fmt.Fprintf(c.out, "Original URL: %s\n", rec.OriginalURL)
}

func (c *CLI) delete(ctx context.Context, code string) {
	const op = "cli.CLI.delete"

	if code == "" {
		fmt.Fprintln(c.out, "Usage: del <short_code>")
		return
	}
	if err := c.validate.Var(code, codeTag); err != nil {
		fmt.Fprintln(c.out, "Error: invalid short code.")
		return
	}

	if err := c.svc.DeleteURL(ctx, code); err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			fmt.Fprintln(c.out, "Not found.")
			return
		}

		c.logger.Errorw("failed to delete mapping", "op", op, "err", err)
		fmt.Fprintln(c.out, "Error: internal error.")
		return
	}

	fmt.Fprintf(c.out, "Deleted mapping %s\n", code)
}

func (c *CLI) list(ctx context.Context) {
	const op = "cli.CLI.list"

	urls, err := c.svc.ListURLs(ctx)
	if err != nil {
		c.logger.Errorw("failed to list mappings", "op", op, "err", err)
		fmt.Fprintln(c.out, "Error: internal error.")
		return
	}

	fmt.Fprintln(c.out, "Current mappings (short -> long):")
	for _, rec := range urls {
		fmt.Fprintf(c.out, "%s -> %s\n", rec.ShortCode, rec.OriginalURL)
	}
}

func (c *CLI) count(ctx context.Context) {
	const op = "cli.CLI.count"

	stats, err := c.svc.Stats(ctx)
	if err != nil {
		c.logger.Errorw("failed to collect index stats", "op", op, "err", err)
		fmt.Fprintln(c.out, "Error: internal error.")
		return
	}

	fmt.Fprintf(c.out, "Code table buckets in use: %d\n", stats.CodeBuckets)
	fmt.Fprintf(c.out, "URL table buckets in use: %d\n", stats.URLBuckets)
}
