package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/dharsanguruparan/LinguaShelf/internal/backend"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

var (
	// ErrNoDraft is returned when the add-document modal is not open.
	ErrNoDraft = errors.New("no upload draft open")
	// ErrNoFile is returned by SubmitDraft when no file has been chosen.
	ErrNoFile = errors.New("no file selected")
	// ErrUploadInFlight is returned while an earlier upload has not settled.
	ErrUploadInFlight = errors.New("upload already in progress")
)

// StatusNoFile is shown when SubmitDraft is called without a file.
const StatusNoFile = "Please select a file to upload."

// FileAdder submits a multipart upload to the backend.
type FileAdder interface {
	AddFile(ctx context.Context, up backend.Upload) (string, error)
}

// UploadState is a snapshot of the add-document modal.
type UploadState struct {
	ModalOpen bool
	FileName  string
	Language  model.UploadLanguage
	Loading   bool
	Status    string
}

// Uploader drives the add-document modal: open a draft, choose a file and a
// language, submit or cancel. At most one draft exists and at most one
// upload is in flight.
//
// gen identifies the current draft. A settled upload whose generation no
// longer matches belongs to a cancelled or replaced draft and leaves the
// modal alone.
type Uploader struct {
	adder    FileAdder
	registry *Registry

	mu        sync.Mutex
	modalOpen bool
	file      FileHandle
	language  model.UploadLanguage
	loading   bool
	status    string
	gen       uint64
}

// NewUploader constructs an Uploader that refreshes registry after every
// successful upload.
func NewUploader(adder FileAdder, registry *Registry) *Uploader {
	return &Uploader{
		adder:    adder,
		registry: registry,
		language: model.DefaultUploadLanguage,
	}
}

// OpenDraft opens the modal with an empty draft. The language selector keeps
// its current value.
func (u *Uploader) OpenDraft() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.modalOpen {
		u.gen++
	}
	u.modalOpen = true
	u.status = ""
}

// SetFile chooses the file for the open draft, replacing any earlier choice.
func (u *Uploader) SetFile(h FileHandle) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.modalOpen {
		return ErrNoDraft
	}
	if u.file != nil {
		u.gen++
	}
	u.file = h
	u.status = ""
	return nil
}

// SetLanguage chooses the upload language tag.
func (u *Uploader) SetLanguage(tag model.UploadLanguage) error {
	if _, ok := model.ParseUploadLanguage(string(tag)); !ok {
		return fmt.Errorf("unsupported upload language %q", tag)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.language = tag
	return nil
}

// CancelDraft closes the modal and discards the draft. An upload already in
// flight is not aborted; its result no longer affects the modal.
func (u *Uploader) CancelDraft() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.modalOpen = false
	u.file = nil
	u.status = ""
	u.gen++
}

// State returns a snapshot of the modal.
func (u *Uploader) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := UploadState{
		ModalOpen: u.modalOpen,
		Language:  u.language,
		Loading:   u.loading,
		Status:    u.status,
	}
	if u.file != nil {
		st.FileName = u.file.Name()
	}
	return st
}

// SubmitDraft uploads the draft. Without a file it fails locally with
// ErrNoFile and makes no network call. On success the modal closes, the draft
// is discarded, the language resets to its default and the registry is
// refreshed. On failure the modal stays open with the reason in Status.
func (u *Uploader) SubmitDraft(ctx context.Context) error {
	u.mu.Lock()
	if !u.modalOpen {
		u.mu.Unlock()
		return ErrNoDraft
	}
	if u.loading {
		u.mu.Unlock()
		return ErrUploadInFlight
	}
	if u.file == nil {
		u.status = StatusNoFile
		u.mu.Unlock()
		log.Printf("upload: %v", ErrNoFile)
		return ErrNoFile
	}
	file, language, gen := u.file, u.language, u.gen
	u.loading = true
	u.status = ""
	u.mu.Unlock()

	err := u.send(ctx, file, language)

	u.mu.Lock()
	u.loading = false
	current := gen == u.gen
	if current {
		if err != nil {
			u.status = "Upload failed: " + err.Error()
		} else {
			u.modalOpen = false
			u.file = nil
			u.language = model.DefaultUploadLanguage
			u.status = "Uploaded " + file.Name()
			u.gen++
		}
	}
	u.mu.Unlock()

	if err != nil {
		log.Printf("upload %s failed: %v", file.Name(), err)
		return err
	}
	if u.registry != nil {
		// the registry logs its own failures; the upload itself succeeded
		_ = u.registry.Refresh(ctx)
	}
	return nil
}

func (u *Uploader) send(ctx context.Context, file FileHandle, language model.UploadLanguage) error {
	body, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer body.Close()
	status, err := u.adder.AddFile(ctx, backend.Upload{
		FileName:  file.Name(),
		MediaType: file.MediaType(),
		Language:  string(language),
		Body:      body,
	})
	if err != nil {
		return err
	}
	if status != "" && !strings.EqualFold(status, "success") {
		return fmt.Errorf("backend reported status %q", status)
	}
	return nil
}
