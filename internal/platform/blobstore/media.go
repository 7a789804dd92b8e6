package blobstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
)

// MaxFileSize is the largest accepted image (5 MB).
const MaxFileSize = 5 << 20

// Kind groups objects under a hospital prefix.
type Kind string

const (
	KindLogo        Kind = "logo"
	KindGallery     Kind = "gallery"
	KindDoctorPhoto Kind = "doctor"
)

// AllowedContentTypes maps accepted image types to the extension used in keys.
var AllowedContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is an incoming file.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// Object describes a stored upload.
type Object struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// Media validates uploads and stores them under
// <hospital>/<kind>/<id>-<slug><ext>, exposing them under publicBase.
type Media struct {
	store      Store
	publicBase string
}

func NewMedia(store Store, publicBase string) *Media {
	return &Media{store: store, publicBase: strings.TrimRight(publicBase, "/")}
}

func (m *Media) Store() Store { return m.store }

func (m *Media) Save(ctx context.Context, hospitalID uuid.UUID, kind Kind, up Upload) (*Object, error) {
	if strings.TrimSpace(up.FileName) == "" {
		return nil, ErrMissingFileName
	}
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	contentType := strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0])
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := AllowedContentTypes[contentType]
	if !ok {
		return nil, ErrInvalidContentType
	}

	base := strings.TrimSuffix(path.Base(up.FileName), path.Ext(up.FileName))
	name := slug.Make(base)
	if name == "" {
		name = string(kind)
	}
	key := fmt.Sprintf("%s/%s/%s-%s%s", hospitalID, kind, uuid.NewString()[:8], name, ext)

	if err := m.store.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}
	return &Object{
		Key:         key,
		URL:         m.URL(key),
		FileName:    up.FileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        fmt.Sprintf("%x", sha256.Sum256(data)),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (m *Media) URL(key string) string {
	return m.publicBase + "/" + key
}

// KeyFromURL returns the object key for a URL produced by this Media.
func (m *Media) KeyFromURL(url string) (string, bool) {
	prefix := m.publicBase + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Remove deletes the object behind url. URLs this store did not issue and
// already-missing objects are ignored.
func (m *Media) Remove(ctx context.Context, url string) error {
	key, ok := m.KeyFromURL(url)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// FormFile opens the multipart field as an Upload. The caller closes it.
func FormFile(c echo.Context, field string) (Upload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return Upload{}, nil, echo.NewHTTPError(http.StatusBadRequest, field+" is required")
	}
	src, err := fh.Open()
	if err != nil {
		return Upload{}, nil, fmt.Errorf("open upload: %w", err)
	}
	return Upload{FileName: fh.Filename, ContentType: fh.Header.Get(echo.HeaderContentType), Body: src}, src, nil
}

// HTTPError maps upload errors to HTTP errors.
func HTTPError(err error) error {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrMissingFileName):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidContentType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "storage error")
	}
}

// Handler serves stored objects for the memory backend.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/*", h.Download)
}

func (h *Handler) Download(c echo.Context) error {
	key := c.Param("*")
	if key == "" || strings.Contains(key, "..") {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	rc, contentType, err := h.store.Get(c.Request().Context(), key)
	if err != nil {
		return HTTPError(err)
	}
	defer rc.Close()
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}
