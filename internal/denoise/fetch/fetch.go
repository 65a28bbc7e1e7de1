// Package fetch resolves an artifact URI into a populated artifact.File (spec.md §4.5),
// grounded on original_source/src/artifact-fetcher.hpp and log-downloader.hpp: local paths
// are read pull-style through a StreamFeeder, HTTP(S) URLs are read push-style as the
// response body streams in, with the decoder chosen from the Content-Type header the same
// way the original's downloader::on_header does it. HTTP retries are delegated to
// github.com/hashicorp/go-retryablehttp, the same package the teacher uses in
// internal/authn/oidc to fetch a remote document with backoff.
package fetch

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	hcretryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/lucastoro/denoiser/internal/denoise/artifact"
	"github.com/lucastoro/denoiser/internal/denoise/encoding"
	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
	"github.com/lucastoro/denoiser/pkg/retryablehttp"
)

// Fetcher resolves URIs into populated artifact.Files. Construct with New (retrying HTTP
// client) or NewWithClient (a caller-supplied client); the zero value has no HTTP client and
// can fetch only local paths.
type Fetcher struct {
	httpClient *http.Client
}

// New returns a Fetcher using a retrying HTTP client. Two retry layers are stacked, both
// grounded on the corpus: the teacher's pkg/retryablehttp.RetryableHTTPClient supplies the
// low-level transport, retrying a failed round trip with exponential backoff (as it does for
// every teacher HTTP call), and github.com/hashicorp/go-retryablehttp wraps that transport
// with its own request-level retry policy (status-code-aware, the same package the teacher
// uses in internal/authn/oidc to fetch a remote document).
func New() *Fetcher {
	transport := retryablehttp.NewClient().StandardClient()

	client := hcretryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient = transport

	return &Fetcher{httpClient: client.StandardClient()}
}

// NewWithClient returns a Fetcher using an already-configured *http.Client, for tests that
// need to point HTTP fetches at an httptest.Server without retry backoff slowing them down.
func NewWithClient(c *http.Client) *Fetcher {
	return &Fetcher{httpClient: c}
}

// Fetch resolves uri into a populated artifact.File known by alias. Scheme dispatch follows
// spec.md §4.3: file:// and bare paths are local; http:// and https:// are remote GETs.
func (f *Fetcher) Fetch(uri, alias string) (*artifact.File, error) {
	switch {
	case strings.HasPrefix(uri, "file://"):
		return f.fetchLocal(strings.TrimPrefix(uri, "file://"), alias)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return f.fetchHTTP(uri, alias)
	default:
		return f.fetchLocal(uri, alias)
	}
}

func (f *Fetcher) fetchLocal(path, alias string) (*artifact.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.NotFoundWrap(err, "local artifact not found: %s", path)
		}
		return nil, pkgerrors.IO(err, "opening local artifact: %s", path)
	}
	defer file.Close()

	b := artifact.NewBuilder(alias)
	if info, statErr := file.Stat(); statErr == nil {
		b.SizeHint(int(info.Size()))
	}

	feeder := encoding.NewStreamFeeder(bufio.NewReader(file))
	if err := decodeAll(feeder, encoding.DecodeUTF8, b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func (f *Fetcher) fetchHTTP(uri, alias string) (*artifact.File, error) {
	resp, err := f.httpClient.Get(uri)
	if err != nil {
		if isHostNotFound(err) {
			return nil, pkgerrors.NotFoundWrap(err, "host unresolved fetching %s", uri)
		}
		return nil, pkgerrors.IO(err, "fetching %s", uri)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.NotFound("resource not found: %s", uri)
	}
	if resp.StatusCode >= 400 {
		return nil, pkgerrors.IO(nil, "unexpected status %d fetching %s", resp.StatusCode, uri)
	}

	b := artifact.NewBuilder(alias)
	decoder := decoderFromHeaders(resp.Header)

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil && n > 0 {
			b.SizeHint(n)
		}
	}

	feeder := encoding.NewBufferedFeeder()
	chunk := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			feeder.PushAll(chunk[:n])
			if err := drain(feeder, decoder, b); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, pkgerrors.IO(readErr, "reading response body for %s", uri)
		}
	}

	if feeder.Len() > 0 {
		return nil, pkgerrors.Encoding("leftover undecodable bytes at end of stream for %s", uri)
	}

	return b.Build(), nil
}

// isHostNotFound reports whether err is a DNS resolution failure, the transport-level
// equivalent of a 404: the host itself doesn't exist, as opposed to an unreachable-but-valid
// host (connection refused, timeout) which stays an IOError.
func isHostNotFound(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound
	}
	return false
}

// decoderFromHeaders resolves the Content-Type header into a Decoder per spec.md §4.3: a
// charset is resolved by name; a Content-Type with no charset defaults to Latin-1; the
// complete absence of a Content-Type header defaults to UTF-8.
func decoderFromHeaders(h http.Header) encoding.Decoder {
	ctype := h.Get("Content-Type")
	if ctype == "" {
		return encoding.DecodeUTF8
	}

	if _, params, found := strings.Cut(ctype, "charset="); found {
		charset := params
		if idx := strings.IndexByte(charset, ';'); idx >= 0 {
			charset = charset[:idx]
		}
		charset = strings.TrimSpace(charset)
		if d, err := encoding.ResolveDecoder(charset); err == nil {
			return d
		}
	}

	return encoding.DecodeLatin1
}

// decodeAll drains a StreamFeeder until End, appending every decoded code point to b.
func decodeAll(feeder *encoding.StreamFeeder, decode encoding.Decoder, b *artifact.Builder) error {
	for {
		r, status, err := decode(feeder)
		if err != nil {
			return pkgerrors.Encoding("%v", err)
		}
		switch status {
		case encoding.Ok:
			b.OnData(r)
		case encoding.End:
			return nil
		case encoding.Incomplete:
			return pkgerrors.Encoding("truncated byte sequence at end of stream")
		}
	}
}

// drain decodes as many complete code points as are currently available on a BufferedFeeder,
// stopping (without error) on Incomplete so the caller can push more bytes and retry.
func drain(feeder *encoding.BufferedFeeder, decode encoding.Decoder, b *artifact.Builder) error {
	for feeder.Len() > 0 {
		r, status, err := decode(feeder)
		if err != nil {
			return pkgerrors.Encoding("%v", err)
		}
		switch status {
		case encoding.Ok:
			b.OnData(r)
		case encoding.Incomplete:
			return nil
		case encoding.End:
			return nil
		}
	}
	return nil
}
