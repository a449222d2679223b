package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"autoprint/internal/models"
)

func TestFlattenFolders_SortsAndRecurses(t *testing.T) {
	nodes := []models.FileNode{
		{Name: "z", Path: "z", Type: models.NodeFolder},
		{Name: "a", Path: "a", Type: models.NodeFolder, Children: []models.FileNode{
			{Name: "b", Path: "a/b", Type: models.NodeFolder},
		}},
		{Name: "x.gco", Path: "x.gco", Type: models.NodeMachineCode},
	}

	got := FlattenFolders(nodes)
	want := []string{"/", "/a", "/a/b", "/z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattenFolders_Cases(t *testing.T) {
	tests := []struct {
		name  string
		nodes []models.FileNode
		want  []string
	}{
		{"empty", nil, []string{"/"}},
		{"only files", []models.FileNode{{Name: "a.gco", Path: "a.gco", Type: models.NodeMachineCode}}, []string{"/"}},
		{
			"ordinal order puts uppercase first",
			[]models.FileNode{
				{Name: "b", Path: "b", Type: models.NodeFolder},
				{Name: "B", Path: "B", Type: models.NodeFolder},
				{Name: "a", Path: "a", Type: models.NodeFolder},
			},
			[]string{"/", "/B", "/a", "/b"},
		},
		{
			"missing name falls back to path",
			[]models.FileNode{
				{Path: "parts/zeta", Type: models.NodeFolder},
				{Path: "parts/alpha", Type: models.NodeFolder},
			},
			[]string{"/", "/parts/alpha", "/parts/zeta"},
		},
		{
			"leading separator is not doubled",
			[]models.FileNode{{Name: "a", Path: "/a", Type: models.NodeFolder}},
			[]string{"/", "/a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenFolders(tt.nodes); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFolderService_RefreshKeepsListOnError(t *testing.T) {
	fail := false
	repo := &fileRepoStub{foldersFn: func(ctx context.Context) ([]models.FileNode, error) {
		if fail {
			return nil, errors.New("controller down")
		}
		return []models.FileNode{{Name: "a", Path: "a", Type: models.NodeFolder}}, nil
	}}
	svc := NewFolderService(repo, 0, nil)

	if got := svc.FolderPaths(); !reflect.DeepEqual(got, []string{"/"}) {
		t.Fatalf("initial list = %v, want [/]", got)
	}
	if err := svc.RefreshFolders(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fail = true
	if err := svc.RefreshFolders(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := svc.FolderPaths(); !reflect.DeepEqual(got, []string{"/", "/a"}) {
		t.Fatalf("list after failed refresh = %v", got)
	}
}
