package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/video/service"
)

type ListVideosParam struct {
	PageNum  int64  `query:"page"`
	PageSize int64  `query:"limit"`
	Query    string `query:"query"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	UserId   string `query:"userId"`
}

type VideoFieldsParam struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

type PlaylistParam struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
}

func isMultipart(c *app.RequestContext) bool {
	return strings.HasPrefix(string(c.ContentType()), "multipart/form-data")
}

// spool saves the uploaded file of field under dir. A missing field yields
// a nil upload.
func spool(c *app.RequestContext, dir, field string) (*service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	file := files[0]
	path := filepath.Join(dir, field+strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return nil, err
	}
	return &service.Upload{
		Path:        path,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}, nil
}

func spoolDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "vidtube-upload-*")
	if err != nil {
		return "", nil, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
