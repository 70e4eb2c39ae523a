package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

func TestSaveReplacesByName(t *testing.T) {
	s := NewMemoryStore()
	s.Save(&model.Document{ID: "1", Name: "a.pdf"})
	s.Save(&model.Document{ID: "2", Name: "b.pdf"})
	s.Save(&model.Document{ID: "3", Name: "a.pdf"})

	assert.Equal(t, []string{"b.pdf", "a.pdf"}, s.Names())
	doc, err := s.Get("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "3", doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestUpdateStatusAndProcessed(t *testing.T) {
	s := NewMemoryStore()
	s.Save(&model.Document{ID: "1", Name: "a.pdf", Status: model.StatusUploaded})
	s.Save(&model.Document{ID: "2", Name: "b.txt", Status: model.StatusUploaded})
	assert.Empty(t, s.Processed())

	require.NoError(t, s.UpdateStatus("2", model.StatusComplete, "done", "body text"))
	processed := s.Processed()
	require.Len(t, processed, 1)
	assert.Equal(t, "b.txt", processed[0].Name)
	assert.Equal(t, "body text", processed[0].Text)

	assert.True(t, errors.Is(s.UpdateStatus("9", model.StatusFailed, "", ""), ErrNotFound))
	_, err := s.Get("zzz")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Save(&model.Document{ID: "1", Name: "a.pdf", Status: model.StatusUploaded})

	doc, err := s.Get("a.pdf")
	require.NoError(t, err)
	doc.Status = model.StatusFailed

	again, err := s.Get("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUploaded, again.Status)
}
