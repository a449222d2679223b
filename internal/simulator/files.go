package simulator

import (
	"path"
	"sort"
	"strings"
	"time"

	"autoprint/internal/models"
)

// Entry is one seeded file of the simulated storage.
type Entry struct {
	Path               string
	EstimatedPrintTime time.Duration
}

// DefaultEntries is the storage tree served when none is configured.
var DefaultEntries = []Entry{
	{Path: "cube.gcode", EstimatedPrintTime: 20 * time.Minute},
	{Path: "benchy.gcode", EstimatedPrintTime: 95 * time.Minute},
	{Path: "cal/ring.gcode", EstimatedPrintTime: 45 * time.Minute},
	{Path: "cal/towers/temp.gcode", EstimatedPrintTime: 70 * time.Minute},
	{Path: "parts/bracket.gcode", EstimatedPrintTime: 125*time.Minute + 30*time.Second},
	{Path: "parts/bracket.stl"},
}

func fileType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".gcode", ".gco", ".g":
		return models.NodeMachineCode
	default:
		return "model"
	}
}

// storage indexes seeded entries by path.
type storage struct {
	files map[string]Entry
}

func newStorage(entries []Entry) *storage {
	s := &storage{files: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Path = strings.Trim(e.Path, "/")
		if e.Path != "" {
			s.files[e.Path] = e
		}
	}
	return s
}

func (s *storage) lookup(p string) (Entry, bool) {
	e, ok := s.files[strings.Trim(p, "/")]
	return e, ok
}

// tree builds the nested listing below dir ("" for the root). With
// recursive unset, folders are returned without their children.
func (s *storage) tree(dir string, recursive bool) []models.FileNode {
	dir = strings.Trim(dir, "/")
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	folders := map[string]bool{}
	var nodes []models.FileNode
	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			folders[rest[:i]] = true
			continue
		}
		nodes = append(nodes, models.FileNode{Name: rest, Path: p, Type: fileType(p)})
	}
	for name := range folders {
		n := models.FileNode{Name: name, Path: prefix + name, Type: models.NodeFolder}
		if recursive {
			n.Children = s.tree(n.Path, true)
		}
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes
}

// isFolder reports whether some seeded file lives below dir.
func (s *storage) isFolder(dir string) bool {
	prefix := strings.Trim(dir, "/") + "/"
	for p := range s.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
