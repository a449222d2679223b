package service

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/models"
	"autoprint/internal/repository"
)

// RootFolder is always the first selectable folder.
const RootFolder = "/"

// FlattenFolders walks the listing depth-first, keeping only folders, with
// siblings ordered by name (byte order). The root path comes first.
func FlattenFolders(nodes []models.FileNode) []string {
	var out []string
	var walk func(level []models.FileNode)
	walk = func(level []models.FileNode) {
		for _, n := range sortedFolders(level) {
			out = append(out, RootFolder+strings.TrimLeft(n.Path, "/"))
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return append([]string{RootFolder}, out...)
}

func sortedFolders(level []models.FileNode) []models.FileNode {
	folders := make([]models.FileNode, 0, len(level))
	for _, n := range level {
		if n.Type == models.NodeFolder {
			folders = append(folders, n)
		}
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return nodeName(folders[i]) < nodeName(folders[j])
	})
	return folders
}

// nodeName falls back to the last path segment for listings without names.
func nodeName(n models.FileNode) string {
	if n.Name != "" {
		return n.Name
	}
	return path.Base(n.Path)
}

// FolderService keeps the flattened folder list for the folder selector.
type FolderService struct {
	repo    repository.FileRepo
	timeout time.Duration
	log     *logger.Logger

	mu      sync.RWMutex
	folders []string
}

func NewFolderService(repo repository.FileRepo, timeout time.Duration, log *logger.Logger) *FolderService {
	return &FolderService{
		repo:    repo,
		timeout: timeout,
		log:     logger.OrNop(log),
		folders: []string{RootFolder},
	}
}

// RefreshFolders re-reads the storage tree. On failure the previous list is kept.
func (s *FolderService) RefreshFolders(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	nodes, err := s.repo.ListFolders(ctx)
	if err != nil {
		return err
	}
	list := FlattenFolders(nodes)

	s.mu.Lock()
	s.folders = list
	s.mu.Unlock()

	s.log.Debugw("folders_refreshed", "count", len(list))
	return nil
}

// FolderPaths returns a copy of the current list.
func (s *FolderService) FolderPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.folders...)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
