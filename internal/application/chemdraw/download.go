package chemdraw

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/storage/minio"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

const (
	// StructureFileName is the name of a downloaded structure payload.
	StructureFileName = "chemical_structure.sdf"

	// StructureContentType is the MDL SD file media type.
	StructureContentType = "chemical/x-mdl-sdfile"
)

const (
	diagramBaseName  = "chemical_diagram"
	defaultImageExt  = "png"
	msgNoDiagram     = "No valid diagram to download"
	msgFetchFailed   = "Failed to download the diagram."
	archiveStatusOK  = "success"
	archiveStatusErr = "failure"
)

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true, "webp": true, "bmp": true,
}

var contentTypeExts = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
}

// File is a downloaded result ready to be saved.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Kind        chem.DownloadKind
	Archive     *chem.ArchiveLink
}

// Downloader fetches the current result of a session for saving.
type Downloader struct {
	client   *http.Client
	policy   *ImagePolicy
	timeout  time.Duration
	maxBytes int64
	archive  minio.Archive
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) { d.client = c }
}

// WithArchive stores every successful download in a.
func WithArchive(a minio.Archive) DownloaderOption {
	return func(d *Downloader) { d.archive = a }
}

// WithDownloadMetrics records downloads on m.
func WithDownloadMetrics(m *prometheus.AppMetrics) DownloaderOption {
	return func(d *Downloader) { d.metrics = m }
}

// WithDownloadLogger sets the logger.
func WithDownloadLogger(l logging.Logger) DownloaderOption {
	return func(d *Downloader) { d.logger = l }
}

// NewDownloader builds a Downloader.  Diagram URLs are fetched only after the
// policy has resolved them, so a rejected URL downloads the placeholder.
func NewDownloader(cfg config.DownloadConfig, policy *ImagePolicy, opts ...DownloaderOption) *Downloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultDownloadTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = config.DefaultDownloadMaxBytes
	}
	d := &Downloader{
		client:   &http.Client{},
		policy:   policy,
		timeout:  cfg.Timeout,
		maxBytes: cfg.MaxBytes,
		metrics:  prometheus.NewNoopAppMetrics(),
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("download")
	return d
}

// Download returns the structure payload or the fetched diagram of r.
func (d *Downloader) Download(ctx context.Context, r *chem.GenerationResult, formula string) (*File, error) {
	if r == nil || r.IsEmpty() {
		return nil, errors.New(errors.ErrCodeNoDiagramToDownload, msgNoDiagram)
	}

	var (
		f   *File
		err error
	)
	if r.MolecularData != "" {
		f = &File{
			Name:        StructureFileName,
			ContentType: StructureContentType,
			Data:        []byte(r.MolecularData),
			Kind:        chem.DownloadStructure,
		}
	} else {
		f, err = d.fetchDiagram(ctx, r.DiagramURL)
	}

	kind := string(chem.DownloadDiagram)
	if f != nil {
		kind = string(f.Kind)
	}
	if err != nil {
		prometheus.RecordDownload(d.metrics, kind, false, 0)
		return nil, err
	}
	prometheus.RecordDownload(d.metrics, kind, true, int64(len(f.Data)))

	d.archiveFile(ctx, f, formula)
	return f, nil
}

func (d *Downloader) fetchDiagram(ctx context.Context, raw string) (*File, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeNoDiagramToDownload, msgNoDiagram)
	}
	src, rejected := d.policy.Resolve(raw)
	if rejected {
		d.logger.Info("diagram url not allowed, refusing download", logging.String("host", u.Host))
		return nil, errors.New(errors.ErrCodeNoDiagramToDownload, msgNoDiagram)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, errors.DownloadError(msgFetchFailed).WithCause(err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("diagram fetch failed", logging.String("url", src), logging.Err(err))
		return nil, errors.DownloadError(msgFetchFailed).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.DownloadError(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, errors.DownloadError(msgFetchFailed).WithCause(err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, errors.Newf(errors.ErrCodeDownloadTooLarge, "diagram exceeds %d bytes", d.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &File{
		Name:        diagramBaseName + "." + DiagramExtension(src, contentType),
		ContentType: contentType,
		Data:        data,
		Kind:        chem.DownloadDiagram,
	}, nil
}

// DiagramExtension picks the file extension for a diagram: the image
// extension of the URL path, else the one implied by contentType, else png.
func DiagramExtension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if imageExts[ext] {
			return ext
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if ext, ok := contentTypeExts[strings.ToLower(mt)]; ok {
			return ext
		}
	}
	return defaultImageExt
}

// archiveFile stores f when an archive is configured.  Failures are logged
// and the download still succeeds.
func (d *Downloader) archiveFile(ctx context.Context, f *File, formula string) {
	if d.archive == nil {
		return
	}
	obj, err := d.archive.Store(ctx, &minio.ArchiveRequest{
		FileName:    f.Name,
		Data:        f.Data,
		ContentType: f.ContentType,
		Formula:     formula,
	})
	if err != nil {
		d.metrics.ArchiveWritesTotal.WithLabelValues(archiveStatusErr).Inc()
		d.logger.Warn("archive write failed", logging.String("file", f.Name), logging.Err(err))
		return
	}
	d.metrics.ArchiveWritesTotal.WithLabelValues(archiveStatusOK).Inc()
	f.Archive = &chem.ArchiveLink{URL: obj.PresignedURL, ObjectKey: obj.ObjectKey}
}

//Personal.AI order the ending
