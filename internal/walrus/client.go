package walrus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"walrusup/internal/logging"
)

// Uploader stores one file on Walrus and reports the resulting blob.
type Uploader interface {
	Store(ctx context.Context, path string) (Result, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger used for request/response diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEpochs overrides the number of storage epochs requested per store call.
func WithEpochs(epochs int) Option {
	return func(c *Client) {
		if epochs > 0 {
			c.epochs = epochs
		}
	}
}

// WithStoreTimeout bounds each store invocation. Zero disables the bound.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// Client wraps Walrus CLI interactions.
type Client struct {
	binary     string
	configPath string
	epochs     int
	timeout    time.Duration
	exec       Executor
	logger     *slog.Logger
}

// New constructs a Walrus client for the given binary and client config file.
func New(binary, configPath string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("walrus binary required")
	}
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		return nil, errors.New("walrus client config path required")
	}
	client := &Client{
		binary:     binary,
		configPath: configPath,
		epochs:     1,
		exec:       commandExecutor{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "walrus")
	return client, nil
}

type storeRequest struct {
	Config  string       `json:"config"`
	Command storeCommand `json:"command"`
}

type storeCommand struct {
	Store storeArgs `json:"store"`
}

type storeArgs struct {
	File   string `json:"file"`
	Epochs int    `json:"epochs"`
}

// BuildStoreRequest renders the JSON document fed to `walrus json` for path.
func (c *Client) BuildStoreRequest(path string) ([]byte, error) {
	payload, err := json.Marshal(storeRequest{
		Config:  c.configPath,
		Command: storeCommand{Store: storeArgs{File: path, Epochs: c.epochs}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode store request: %w", err)
	}
	return payload, nil
}

// Store uploads path to Walrus. A non-zero exit yields a *ProcessError and the
// output is not parsed; unrecognised output yields a *FormatError.
func (c *Client) Store(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("walrus store: empty path")
	}
	request, err := c.BuildStoreRequest(path)
	if err != nil {
		return Result{}, err
	}

	storeCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, c.logger)
	logger.Info("uploading file",
		logging.String(logging.FieldFile, path),
		logging.Int("epochs", c.epochs))

	started := time.Now()
	out, runErr := c.exec.Run(storeCtx, c.binary, []string{"json"}, request)
	logger.Info("walrus response",
		logging.String(logging.FieldFile, path),
		logging.Int("exit_code", out.ExitCode),
		logging.Duration("elapsed", time.Since(started)),
		logging.String("stdout", strings.TrimSpace(string(out.Stdout))),
		logging.String("stderr", strings.TrimSpace(string(out.Stderr))))

	if runErr != nil {
		return Result{}, &ProcessError{
			Path:     path,
			ExitCode: -1,
			Stdout:   string(out.Stdout),
			Stderr:   string(out.Stderr),
			Err:      runErr,
		}
	}
	if out.ExitCode != 0 {
		return Result{}, &ProcessError{
			Path:     path,
			ExitCode: out.ExitCode,
			Stdout:   string(out.Stdout),
			Stderr:   string(out.Stderr),
		}
	}

	result, err := ParseStoreResponse(path, out.Stdout)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("stored blob",
		logging.String(logging.FieldFile, path),
		logging.String(logging.FieldBlobID, result.BlobID),
		logging.Int64("end_epoch", result.EndEpoch),
		logging.String("variant", string(result.Variant)))
	return result, nil
}
