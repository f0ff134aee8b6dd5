package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"arc-setup/internal/logger"
)

var (
	// ErrAllMirrorsFailed is returned by FetchFirst when no URL produced the file.
	ErrAllMirrorsFailed = errors.New("all download mirrors failed")
	// ErrChecksum is returned when the downloaded bytes do not match the expected SHA-256.
	ErrChecksum = errors.New("checksum mismatch")
)

const defaultChunkSize = 1 << 20

// Fetcher streams HTTP downloads to disk and reports progress.
type Fetcher struct {
	Client    *http.Client
	Progress  io.Writer // Receives the \r-updated progress line; nil discards it
	ChunkSize int

	now func() time.Time
}

// New returns a Fetcher whose client applies timeout to each request (zero means none).
func New(timeout time.Duration, progress io.Writer) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: timeout},
		Progress: progress,
	}
}

// Result describes a completed FetchFirst call.
type Result struct {
	Path   string
	URL    string // Mirror that served the file, empty on a cache hit
	Size   int64
	Cached bool
}

// FetchFirst tries each URL in order until one succeeds. A failed mirror is
// logged, its partial file removed, and the next one tried. If dest already
// exists and matches sum (or sum is empty) no request is made.
func (f *Fetcher) FetchFirst(ctx context.Context, urls []string, dest, sum string) (Result, error) {
	if len(urls) == 0 {
		return Result{}, errors.New("no download URLs given")
	}
	if ok, size := Cached(dest, sum); ok {
		logger.Info("[INFO] Using cached %s\n", dest)
		return Result{Path: dest, Size: size, Cached: true}, nil
	}

	var errs []error
	for i, u := range urls {
		logger.Debug("[DEBUG] Trying mirror %d/%d: %s\n", i+1, len(urls), u)
		size, err := f.Fetch(ctx, u, dest, sum)
		if err == nil {
			return Result{Path: dest, URL: u, Size: size}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		logger.Warn("[WARN] Download from %s failed: %v\n", u, err)
		errs = append(errs, fmt.Errorf("%s: %w", u, err))
	}
	return Result{}, fmt.Errorf("%w: %w", ErrAllMirrorsFailed, errors.Join(errs...))
}

// Fetch downloads url into dest. The body is streamed into dest+".part" and
// renamed over dest only once the size and checksum checks pass, so dest never
// holds a partial download. A leftover .part from an interrupted run is removed first.
func (f *Fetcher) Fetch(ctx context.Context, url, dest, sum string) (size int64, err error) {
	part := PartPath(dest)
	if err := removeIfExists(part); err != nil {
		return 0, fmt.Errorf("failed to remove stale %s: %w", part, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("mkdir failed: %w", err)
	}
	out, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", part, err)
	}
	defer func() {
		if out != nil {
			_ = out.Close()
		}
		if err != nil {
			if rerr := removeIfExists(part); rerr != nil {
				logger.Error("[ERROR] Failed to remove partial file %s: %v\n", part, rerr)
			}
		}
	}()

	logger.Info("[INFO] Downloading %s to %s\n", url, dest)
	hash := sha256.New()
	size, err = f.copy(io.MultiWriter(out, hash), resp.Body, resp.ContentLength, path.Base(req.URL.Path))
	if err != nil {
		return size, err
	}

	if sum != "" {
		got := hex.EncodeToString(hash.Sum(nil))
		if !strings.EqualFold(got, sum) {
			return size, fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, sum)
		}
	}

	cerr := out.Close()
	out = nil
	if cerr != nil {
		return size, fmt.Errorf("failed to close %s: %w", part, cerr)
	}
	if err = os.Rename(part, dest); err != nil {
		return size, fmt.Errorf("failed to move %s into place: %w", part, err)
	}

	logger.Debug("[DEBUG] Downloaded %s (%s)\n", dest, humanize.Bytes(uint64(size)))
	return size, nil
}

// PartPath is where Fetch streams dest while the download is in flight.
func PartPath(dest string) string {
	return dest + ".part"
}

func removeIfExists(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// copy moves body into w chunk by chunk, redrawing the progress line after each chunk.
func (f *Fetcher) copy(w io.Writer, body io.Reader, total int64, name string) (int64, error) {
	progress := f.Progress
	if progress == nil {
		progress = io.Discard
	}
	chunk := f.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	now := f.now
	if now == nil {
		now = time.Now
	}

	start := now()
	buf := make([]byte, chunk)
	var size int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return size, fmt.Errorf("failed to write response to file: %w", err)
			}
			size += int64(n)
			fmt.Fprint(progress, "\r"+ProgressLine(name, size, total, now().Sub(start)))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			fmt.Fprintln(progress)
			return size, fmt.Errorf("failed to read response: %w", rerr)
		}
	}
	fmt.Fprintln(progress)

	if total > 0 && size != total {
		return size, fmt.Errorf("short download: got %d of %d bytes", size, total)
	}
	return size, nil
}

// ProgressLine formats percentage (when total is known) and throughput.
func ProgressLine(name string, done, total int64, elapsed time.Duration) string {
	var rate uint64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = uint64(float64(done) / secs)
	}
	if total > 0 {
		return fmt.Sprintf("[INFO] %s ... %d%% (%s/s)", name, done*100/total, humanize.Bytes(rate))
	}
	return fmt.Sprintf("[INFO] %s ... %s (%s/s)", name, humanize.Bytes(uint64(done)), humanize.Bytes(rate))
}

// Cached reports whether dest exists and, when sum is set, matches it.
func Cached(dest, sum string) (bool, int64) {
	info, err := os.Stat(dest)
	if err != nil || !info.Mode().IsRegular() {
		return false, 0
	}
	if sum == "" {
		return true, info.Size()
	}
	got, err := FileSHA256(dest)
	if err != nil || !strings.EqualFold(got, sum) {
		logger.Info("[INFO] %s exists but hash does not match, redownloading\n", dest)
		return false, 0
	}
	return true, info.Size()
}

// FileSHA256 returns the hex SHA-256 of the file at p.
func FileSHA256(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
