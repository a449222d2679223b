package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"autoprint/internal/logger"
	"autoprint/internal/models"
	"autoprint/internal/repository"
)

// Drafts holds the operator's unsaved job. Nothing here reaches the
// controller until the draft is submitted.
type Drafts struct {
	clock *TimeAdapter
	files *FileResolver
	log   *logger.Logger

	mu    sync.Mutex
	draft models.JobDraft
}

func NewDrafts(clock *TimeAdapter, files *FileResolver, log *logger.Logger) *Drafts {
	return &Drafts{
		clock: clock,
		files: files,
		log:   logger.OrNop(log),
		draft: models.JobDraft{
			Folder:           RootFolder,
			StartTimeEpochMs: clock.Now(),
			Trigger:          models.TriggerStart,
		},
	}
}

// CurrentDraft returns a copy of the draft.
func (d *Drafts) CurrentDraft() models.JobDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// UpdateDraft applies patch. A folder change clears the chosen file unless the
// patch names one, and re-resolves the folder's files.
func (d *Drafts) UpdateDraft(ctx context.Context, patch models.DraftPatch) (models.JobDraft, error) {
	var start *int64
	switch {
	case patch.TimeDisplay != nil:
		ms, err := d.clock.FromDisplay(*patch.TimeDisplay)
		if err != nil {
			return d.CurrentDraft(), err
		}
		start = &ms
	case patch.StartTimeEpochMs != nil:
		ms := d.clock.TruncateToMinute(*patch.StartTimeEpochMs)
		start = &ms
	}
	if patch.Trigger != nil && !patch.Trigger.Valid() {
		return d.CurrentDraft(), ErrInvalidTrigger
	}

	d.mu.Lock()
	folderChanged := false
	if patch.Folder != nil {
		folder := displayFolder(*patch.Folder)
		if folder != d.draft.Folder {
			folderChanged = true
			d.draft.Folder = folder
			if patch.File == nil {
				d.draft.File = ""
			}
		}
	}
	if patch.File != nil {
		d.draft.File = *patch.File
	}
	if start != nil {
		d.draft.StartTimeEpochMs = *start
	}
	if patch.TurnOffAfterPrint != nil {
		d.draft.TurnOffAfterPrint = *patch.TurnOffAfterPrint
	}
	if patch.Trigger != nil {
		d.draft.Trigger = *patch.Trigger
	}
	folder := d.draft.Folder
	d.mu.Unlock()

	if folderChanged {
		d.resolve(ctx, folder)
	}
	return d.CurrentDraft(), nil
}

// BrowseSelect takes a storage path picked in the file browser, e.g.
// "parts/bracket.gcode", and makes it the draft's folder and file.
func (d *Drafts) BrowseSelect(ctx context.Context, storagePath string) (models.JobDraft, error) {
	p := strings.Trim(storagePath, "/")
	if p == "" {
		return d.CurrentDraft(), ErrInvalidPath
	}
	dir, file := path.Split(p)
	folder := displayFolder(dir)
	return d.UpdateDraft(ctx, models.DraftPatch{Folder: &folder, File: &file})
}

// ClearFolder leaves the draft without a folder or file. The file list
// stays as it was and reports pending until a folder is chosen again.
func (d *Drafts) ClearFolder() models.JobDraft {
	d.mu.Lock()
	d.draft.Folder = ""
	d.draft.File = ""
	d.mu.Unlock()

	d.files.Unselect()
	return d.CurrentDraft()
}

// Reselect resolves the files of the draft's current folder again.
func (d *Drafts) Reselect(ctx context.Context) {
	d.resolve(ctx, d.CurrentDraft().Folder)
}

func (d *Drafts) resolve(ctx context.Context, folder string) {
	if err := d.files.Select(ctx, folder); err != nil && !errors.Is(err, ErrStaleSelection) {
		d.log.Warnw("file_listing_failed", "folder", folder, "err", err)
	}
}

// displayFolder turns a storage folder into its selector form, "/" or "/a/b".
func displayFolder(folder string) string {
	return RootFolder + strings.Trim(repository.NormalizeFolder(folder), "/")
}
