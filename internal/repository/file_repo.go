package repository

import (
	"context"
	"net/url"
	"strings"

	"autoprint/internal/models"
)

// StorageRoot is the managed storage area all locations are relative to.
const StorageRoot = "local"

type FileHTTP struct {
	remote Remote
}

func NewFileHTTP(remote Remote) *FileHTTP {
	return &FileHTTP{remote: remote}
}

var _ FileRepo = (*FileHTTP)(nil)

// ListFolders returns the full recursive storage tree.
func (r *FileHTTP) ListFolders(ctx context.Context) ([]models.FileNode, error) {
	var env filesEnvelope
	if err := r.remote.GetJSON(ctx, filesPath+"?recursive=true", &env); err != nil {
		return nil, wrapTransport("list folders", err)
	}
	return env.Files, nil
}

// ListLocation lists one location (e.g. "local" or "local/cal") without recursion.
func (r *FileHTTP) ListLocation(ctx context.Context, location string) (Listing, error) {
	var env filesEnvelope
	if err := r.remote.GetJSON(ctx, locationPath(location), &env); err != nil {
		return Listing{}, wrapTransport("list location", err)
	}
	return Listing{Files: env.Files, Children: env.Children}, nil
}

// LocationFor maps a folder selection onto a storage location.
func LocationFor(folder string) string {
	folder = NormalizeFolder(folder)
	if folder == "" {
		return StorageRoot
	}
	return StorageRoot + "/" + folder
}

func locationPath(location string) string {
	segs := strings.Split(strings.Trim(location, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return filesPath + "/" + strings.Join(segs, "/") + "?recursive=false"
}
