package models

// Node types used by the controller's file listing.
const (
	NodeFolder      = "folder"
	NodeMachineCode = "machinecode"
)

// FileNode is one entry of a hierarchical storage listing.
type FileNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Type     string     `json:"type"`
	Children []FileNode `json:"children,omitempty"`
}

// FileList is the set of executable files directly under the selected folder.
// Folder is "/" or "/a/b", empty while nothing is selected.
type FileList struct {
	Folder  string   `json:"folder"`
	Pending bool     `json:"pending"`
	Files   []string `json:"files"`
}
