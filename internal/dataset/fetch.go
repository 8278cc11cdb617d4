package dataset

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"fraud-eda/internal/logging"
)

// Fetcher copies the raw bytes of a remote resource into w.
type Fetcher interface {
	Fetch(ctx context.Context, remoteID string, w io.Writer) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, remoteID string, w io.Writer) error

func (f FetcherFunc) Fetch(ctx context.Context, remoteID string, w io.Writer) error {
	return f(ctx, remoteID, w)
}

// DriveDownloadURL is the direct-download endpoint for public Drive files.
// confirm=t skips the interstitial shown for files too large to scan.
const DriveDownloadURL = "https://drive.usercontent.google.com/download?id=%s&export=download&confirm=t"

var driveIDPattern = regexp.MustCompile(`/d/([A-Za-z0-9_-]{10,})`)

// DriveFileID extracts the file id from a Drive share link. Anything that is
// not a link is returned unchanged.
func DriveFileID(ref string) string {
	ref = strings.TrimSpace(ref)
	if m := driveIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	return ref
}

// HTTPFetcher downloads plain http(s) URLs and Google Drive files.
type HTTPFetcher struct {
	Client *http.Client
	// DriveURL is a fmt template taking the file id; defaults to DriveDownloadURL.
	DriveURL string
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client, DriveURL: DriveDownloadURL}
}

// ResolveURL maps a remote id onto the URL actually requested.
func (f *HTTPFetcher) ResolveURL(remoteID string) string {
	if strings.Contains(remoteID, "drive.google.com") {
		remoteID = DriveFileID(remoteID)
	}
	if strings.HasPrefix(remoteID, "http://") || strings.HasPrefix(remoteID, "https://") {
		return remoteID
	}
	tmpl := f.DriveURL
	if tmpl == "" {
		tmpl = DriveDownloadURL
	}
	return fmt.Sprintf(tmpl, url.QueryEscape(remoteID))
}

func (f *HTTPFetcher) Fetch(ctx context.Context, remoteID string, w io.Writer) error {
	if strings.TrimSpace(remoteID) == "" {
		return fmt.Errorf("%w: empty resource id", ErrFetch)
	}
	target := f.ResolveURL(remoteID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	logging.Infof("Downloading dataset from %s", target)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrFetch, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned status %d", ErrFetch, target, resp.StatusCode)
	}
	// Drive answers with an HTML page for private files, bad ids and quota errors.
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mt == "text/html" {
		return fmt.Errorf("%w: GET %s returned an HTML page instead of the dataset (check the id and sharing settings)", ErrFetch, target)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrFetch, target, err)
	}
	logging.Infof("Downloaded %d bytes", n)
	return nil
}

// SchemeFetcher routes s3:// ids to S3 and everything else to HTTP.
type SchemeFetcher struct {
	HTTP Fetcher
	S3   Fetcher
}

func (f *SchemeFetcher) Fetch(ctx context.Context, remoteID string, w io.Writer) error {
	if strings.HasPrefix(remoteID, "s3://") {
		if f.S3 == nil {
			return fmt.Errorf("%w: no S3 client configured for %s", ErrFetch, remoteID)
		}
		return f.S3.Fetch(ctx, remoteID, w)
	}
	if f.HTTP == nil {
		return fmt.Errorf("%w: no HTTP client configured for %s", ErrFetch, remoteID)
	}
	return f.HTTP.Fetch(ctx, remoteID, w)
}
