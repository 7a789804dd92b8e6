package middleware

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const fallbackBodyLimit int64 = 1 << 20

var sizeUnits = []struct {
	suffix string
	shift  uint
}{
	{"GB", 30}, {"MB", 20}, {"KB", 10},
	{"G", 30}, {"M", 20}, {"K", 10},
	{"B", 0},
}

// ParseSize reads sizes such as "1M", "512KB" or "2048". Units are binary.
func ParseSize(s string) (int64, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	var shift uint
	for _, u := range sizeUnits {
		if strings.HasSuffix(raw, u.suffix) {
			raw, shift = strings.TrimSpace(strings.TrimSuffix(raw, u.suffix)), u.shift
			break
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n << shift, nil
}

func sizeOr(s string, fallback int64) int64 {
	if n, err := ParseSize(s); err == nil {
		return n
	}
	return fallback
}

// BodyLimit rejects request bodies over jsonLimit, or over uploadLimit for
// multipart/form-data requests carrying logos, photos and gallery images.
// Sizes that fail to parse fall back to 1M.
func BodyLimit(jsonLimit, uploadLimit string) echo.MiddlewareFunc {
	plain := sizeOr(jsonLimit, fallbackBodyLimit)
	upload := sizeOr(uploadLimit, fallbackBodyLimit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			limit := plain
			if mt, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType)); err == nil && mt == echo.MIMEMultipartForm {
				limit = upload
			}
			if req.ContentLength > limit {
				return tooLarge(limit)
			}
			req.Body = &cappedBody{rc: req.Body, left: limit, limit: limit}
			return next(c)
		}
	}
}

// cappedBody fails the read that crosses the limit, for bodies sent without
// a Content-Length.
type cappedBody struct {
	rc    io.ReadCloser
	left  int64
	limit int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.left < 0 {
		return 0, tooLarge(b.limit)
	}
	if int64(len(p)) > b.left+1 {
		p = p[:b.left+1]
	}
	n, err := b.rc.Read(p)
	b.left -= int64(n)
	if b.left < 0 {
		return 0, tooLarge(b.limit)
	}
	return n, err
}

func (b *cappedBody) Close() error { return b.rc.Close() }

func tooLarge(limit int64) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("request body larger than %d bytes", limit))
}
