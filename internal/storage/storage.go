package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// Object describes a catalog image being stored. Folder groups images of one
// product or collection; Name is the original file name.
type Object struct {
	Folder      string
	Name        string
	ContentType string
}

type Stored struct {
	Key string
	URL string
}

// Storage keeps catalog images. Keys are derived from the object, so storing
// the same image twice overwrites it instead of piling up copies.
type Storage interface {
	Put(ctx context.Context, r io.Reader, obj Object) (Stored, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ObjectKey builds "<folder>/<name>.<ext>" with both parts slugified and the
// extension limited to image types.
func ObjectKey(obj Object) string {
	ext := imageExt(obj.Name)
	base := strings.TrimSuffix(filepath.Base(obj.Name), filepath.Ext(obj.Name))
	name := slug.MakeLang(base, "es")
	if name == "" {
		name = "imagen"
	}
	folder := slug.MakeLang(obj.Folder, "es")
	if folder == "" {
		return name + ext
	}
	return path.Join(folder, name+ext)
}

func imageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".avif":
		return ext
	default:
		return ""
	}
}

// ContentTypeFor guesses the MIME type from the file extension.
func ContentTypeFor(filename string) string {
	switch imageExt(filename) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".avif":
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}
