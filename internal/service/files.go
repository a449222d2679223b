package service

import (
	"context"
	"path"
	"sync"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/models"
	"autoprint/internal/repository"
)

// FileResolver lists the executable files directly under the selected folder.
// Every selection takes a new token; an answer is applied only if its token is
// still the latest, so a slow listing for an old folder never wins.
type FileResolver struct {
	repo    repository.FileRepo
	timeout time.Duration
	log     *logger.Logger

	mu       sync.Mutex
	token    uint64
	applied  uint64
	selected *string
	files    []string
}

func NewFileResolver(repo repository.FileRepo, timeout time.Duration, log *logger.Logger) *FileResolver {
	return &FileResolver{repo: repo, timeout: timeout, log: logger.OrNop(log)}
}

// Select makes folder the current selection and resolves its files.
// It returns ErrStaleSelection when a newer selection overtook this one.
func (r *FileResolver) Select(ctx context.Context, folder string) error {
	folder = repository.NormalizeFolder(folder)

	r.mu.Lock()
	r.token++
	tok := r.token
	r.selected = &folder
	r.mu.Unlock()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	listing, err := r.repo.ListLocation(ctx, repository.LocationFor(folder))
	if err != nil {
		return err
	}
	files := machineCodeNames(listing)

	r.mu.Lock()
	defer r.mu.Unlock()
	if tok != r.token {
		r.log.Debugw("file_listing_stale", "folder", folder, "token", tok, "current", r.token)
		return ErrStaleSelection
	}
	r.applied = tok
	r.files = files
	return nil
}

// Unselect clears the selection. No request is made and the list is kept.
func (r *FileResolver) Unselect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token++
	r.selected = nil
}

// FileList reports the files of the current selection. Pending is set while
// nothing is selected or the latest selection has not resolved yet.
func (r *FileResolver) FileList() models.FileList {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := models.FileList{
		Pending: r.selected == nil || r.applied != r.token,
		Files:   append([]string{}, r.files...),
	}
	if r.selected != nil {
		out.Folder = displayFolder(*r.selected)
	}
	return out
}

// machineCodeNames merges executable entries, files first then children,
// each in the order the controller returned them.
func machineCodeNames(l repository.Listing) []string {
	out := make([]string, 0, len(l.Files)+len(l.Children))
	for _, src := range [][]models.FileNode{l.Files, l.Children} {
		for _, n := range src {
			if n.Type != models.NodeMachineCode {
				continue
			}
			name := n.Name
			if name == "" {
				name = path.Base(n.Path)
			}
			out = append(out, name)
		}
	}
	return out
}
