package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// Upload is a received file rendered inline.
type Upload struct {
	Name      string
	MediaType string
	DataURL   string
}

// ReadUpload reads a multipart file into a base64 data URL. The media type
// comes from the part header, falling back to content sniffing.
func ReadUpload(fh *multipart.FileHeader, maxBytes int64) (Upload, error) {
	if fh.Size > maxBytes {
		return Upload{}, ErrUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Upload{}, ErrUploadTooLarge
	}

	mediaType := fh.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(data)
	}

	return Upload{
		Name:      filepath.Base(fh.Filename),
		MediaType: mediaType,
		DataURL:   "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
