package qrcodes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"cardshare_backend/internal/adapters/storage"
)

// ErrLogoTooLarge is returned when a logo exceeds the configured limit.
var ErrLogoTooLarge = errors.New("logo exceeds size limit")

// ObjectReader is the part of the storage service logos are read through.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, fileKey string, maxBytes int64) ([]byte, error)
}

// Fetcher loads logos from object storage by key, or over HTTP by URL.
type Fetcher struct {
	objects  ObjectReader
	bucket   string
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher. objects may be nil when storage is disabled;
// keyed logos then fail and the QR code is rendered without them.
func NewFetcher(objects ObjectReader, bucket string, client *http.Client, maxBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{objects: objects, bucket: bucket, client: client, maxBytes: maxBytes}
}

// FetchLogo implements LogoFetcher.
func (f *Fetcher) FetchLogo(ctx context.Context, src LogoSource) ([]byte, error) {
	switch {
	case src.FileKey != "":
		if f.objects == nil {
			return nil, storage.NotConfigured()
		}
		data, err := f.objects.ReadObject(ctx, f.bucket, src.FileKey, f.maxBytes)
		if errors.Is(err, storage.ErrObjectTooLarge) {
			return nil, ErrLogoTooLarge
		}
		return data, err
	case src.URL != "":
		return f.fetchURL(ctx, src.URL)
	default:
		return nil, errors.New("no logo source")
	}
}

func (f *Fetcher) fetchURL(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("unsupported logo url %q", raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %d", resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, ErrLogoTooLarge
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, ErrLogoTooLarge
	}
	return data, nil
}
