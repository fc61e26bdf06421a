// Package upload turns uploaded image files into data URIs that can be
// stored directly in a laptop's image list.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

const (
	DefaultMaxImages = 4
	DefaultMaxBytes  = 5 * 1024 * 1024
)

var (
	ErrTooManyImages = errors.New("too many images")
	ErrNotImage      = errors.New("please upload only image files")
	ErrTooLarge      = errors.New("file too large")
	ErrNoFiles       = errors.New("no files uploaded")
	ErrBadIndex      = errors.New("image index out of range")
)

// Image is one uploaded file.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts multipart file headers.
func FromMultipart(files []*multipart.FileHeader) []Image {
	out := make([]Image, 0, len(files))
	for _, fh := range files {
		fh := fh
		out = append(out, Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}

type Limits struct {
	MaxImages int
	MaxBytes  int64
}

func DefaultLimits() Limits {
	return Limits{MaxImages: DefaultMaxImages, MaxBytes: DefaultMaxBytes}
}

// Append converts files to data URIs and appends them to current. Only as
// many files as there are free slots are taken; when no slot is free the
// upload is rejected. Nothing is appended if any taken file is not an
// image or is too large.
func (l Limits) Append(current []string, files []Image) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	free := l.MaxImages - len(current)
	if free <= 0 {
		return nil, fmt.Errorf("%w: maximum %d images allowed", ErrTooManyImages, l.MaxImages)
	}
	if len(files) > free {
		files = files[:free]
	}

	for _, f := range files {
		if !strings.HasPrefix(mediaType(f.ContentType), "image/") {
			return nil, fmt.Errorf("%w: %s", ErrNotImage, f.Filename)
		}
		if f.Size > l.MaxBytes {
			return nil, fmt.Errorf("%w: %s must be less than %dMB", ErrTooLarge, f.Filename, l.MaxBytes/(1024*1024))
		}
	}

	out := append([]string{}, current...)
	for _, f := range files {
		uri, err := l.dataURI(f)
		if err != nil {
			return nil, err
		}
		out = append(out, uri)
	}
	return out, nil
}

// RemoveAt drops the image at index i.
func RemoveAt(images []string, i int) ([]string, error) {
	if i < 0 || i >= len(images) {
		return nil, ErrBadIndex
	}
	out := append([]string{}, images[:i]...)
	return append(out, images[i+1:]...), nil
}

func (l Limits) dataURI(f Image) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Filename, err)
	}
	defer rc.Close()

	// Size comes from the client; enforce it on the bytes as well.
	data, err := io.ReadAll(io.LimitReader(rc, l.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Filename, err)
	}
	if int64(len(data)) > l.MaxBytes {
		return "", fmt.Errorf("%w: %s must be less than %dMB", ErrTooLarge, f.Filename, l.MaxBytes/(1024*1024))
	}
	return "data:" + mediaType(f.ContentType) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
