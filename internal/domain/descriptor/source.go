package descriptor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/microshell/internal/shared/codec"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// maxRemoteBody bounds a remote descriptor response
const maxRemoteBody = 4 << 20

// ErrUnexpectedStatus is returned for non-2xx remote responses
var ErrUnexpectedStatus = errors.New("unexpected status")

// Document is the on-disk and on-wire descriptor envelope
type Document struct {
	Menu []types.NavItem `json:"menu" yaml:"menu" toml:"menu"`
}

// Source loads a navigation descriptor
type Source interface {
	Load(ctx context.Context) ([]types.NavItem, error)
	String() string
}

// FileSource reads a descriptor document from disk
type FileSource struct {
	path string
}

// NewFileSource creates a file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements Source
func (s *FileSource) Load(_ context.Context) ([]types.NavItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var doc Document
	if err := codec.DecodeFile(s.path, data, &doc); err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", s.path, err)
	}
	return doc.Menu, nil
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) String() string {
	return "file:" + s.path
}

// RemoteSource fetches a JSON descriptor from a menu endpoint. The body
// is either a Document or a bare item array.
type RemoteSource struct {
	url    string
	client *retryablehttp.Client
}

// NewRemoteSource creates a remote source with bounded retries and a
// per-attempt timeout
func NewRemoteSource(url string, retries int, timeout time.Duration) *RemoteSource {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil

	return &RemoteSource{url: url, client: client}
}

// Load implements Source
func (s *RemoteSource) Load(ctx context.Context) ([]types.NavItem, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch descriptor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var doc Document
	if err := sonic.Unmarshal(body, &doc); err == nil {
		return doc.Menu, nil
	}

	var items []types.NavItem
	if err := sonic.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	return items, nil
}

func (s *RemoteSource) String() string {
	return "remote:" + s.url
}
