// Package apiconn fetches speed files from the data server and stream-parses
// them into speed tables, following the addendum chain when enabled.
package apiconn

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/errcode"
)

const (
	// BlockSize is the scratch size for one HTTP read. One byte is kept free
	// for the newline appended at end of stream.
	BlockSize   = 128
	CircBufSize = 2 * BlockSize

	// MaxAddendumPath is the longest name whose braces still fit the first
	// block of an addendum.
	MaxAddendumPath = BlockSize - 3
	AddendumFolder  = "_add"
	AddendumExt     = ".add"

	DefaultRetries    = 5
	DefaultMaxAddenda = 16
)

type Config struct {
	Logger zerolog.Logger
	// Client defaults to a client with a 30 s timeout.
	Client *http.Client
	// Retries bounds attempts to open one file. Default 5.
	Retries      int
	RetryBackoff time.Duration
	// DeviceID is sent as the id query parameter.
	DeviceID string

	UseAddenda    bool
	FirstAddendum string
	// MaxAddenda bounds the chain length. Default 16.
	MaxAddenda int
}

type Fetcher struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config) *Fetcher {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.MaxAddenda <= 0 {
		cfg.MaxAddenda = DefaultMaxAddenda
	}
	return &Fetcher{cfg: cfg, log: cfg.Logger.With().Str("svc", "apiconn").Logger()}
}

// File is an open, validated server response read in blocks.
type File struct {
	URL  string
	r    *bufio.Reader
	body io.Closer
	eof  bool
}

func (f *File) Close() error { return f.body.Close() }

// Read reads the raw body, for consumers that stream it elsewhere.
func (f *File) Read(p []byte) (int, error) { return f.r.Read(p) }

// NextBlock reads up to len(buf)-1 bytes. When the read reaches end of
// stream a newline is appended so the last row is always terminated. It
// returns 0 once the stream is exhausted.
func (f *File) NextBlock(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, errcode.InvalidSize
	}
	if f.eof {
		return 0, nil
	}
	n, err := io.ReadFull(f.r, buf[:len(buf)-1])
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		f.eof = true
		if n == 0 {
			return 0, nil
		}
		buf[n] = '\n'
		return n + 1, nil
	default:
		return 0, errcode.Wrap(errcode.NoConn, "apiconn.read", err)
	}
}

func (f *Fetcher) withID(url string) string {
	if f.cfg.DeviceID == "" {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "id=" + f.cfg.DeviceID
}

// OpenServerFile requests url and validates the response: status 200 and a
// non-empty body. Failed attempts are retried up to Config.Retries times.
func (f *Fetcher) OpenServerFile(ctx context.Context, url string) (*File, error) {
	full := f.withID(url)
	var last error
	for attempt := 1; attempt <= f.cfg.Retries; attempt++ {
		file, err := f.open(ctx, full)
		if err == nil {
			file.URL = url
			return file, nil
		}
		last = err
		f.log.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("open failed")
		if ctx.Err() != nil {
			break
		}
		if attempt < f.cfg.Retries && f.cfg.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(f.cfg.RetryBackoff):
			}
		}
	}
	return nil, errcode.Wrap(errcode.NoConn, "apiconn.open", last)
}

func (f *Fetcher) open(ctx context.Context, url string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "apiconn.open", err)
	}
	resp, err := f.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errcode.New(errcode.BadStatus, "apiconn.open", strconv.Itoa(resp.StatusCode))
	}
	if resp.ContentLength == 0 {
		resp.Body.Close()
		return nil, errcode.New(errcode.EmptyBody, "apiconn.open", "content length 0")
	}
	r := bufio.NewReaderSize(resp.Body, BlockSize)
	if resp.ContentLength < 0 {
		// Length unknown: require at least one byte.
		if _, err := r.Peek(1); err != nil {
			resp.Body.Close()
			return nil, errcode.Wrap(errcode.EmptyBody, "apiconn.open", err)
		}
	}
	return &File{r: r, body: resp.Body}, nil
}
