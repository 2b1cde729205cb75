package jobs

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videomasa/internal/app/model"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 12)
	assert.Regexp(t, `^[0-9a-f]{12}$`, id)
	assert.NotEqual(t, id, NewID())
}

func TestStore_CreateGet(t *testing.T) {
	s := NewStore()
	job := model.NewJob("abc123abc123", time.Now())
	require.NoError(t, s.Create(job))
	assert.Error(t, s.Create(job), "duplicate ids are rejected")

	got, err := s.Get("abc123abc123")
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, got.Status)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Update("missing", func(*model.Job) error { return nil }), ErrNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(model.NewJob("a", time.Now())))

	got, err := s.Get("a")
	require.NoError(t, err)
	got.Status = model.StatusError
	got.Transcripts["tiny"] = model.TranscriptResult{Status: model.TranscriptDone}

	again, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, again.Status)
	assert.Empty(t, again.Transcripts)
}

func TestStore_UpdatePropagatesError(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(model.NewJob("a", time.Now())))

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Update("a", func(*model.Job) error { return boom }), boom)
}

func TestStore_ListKeepsCreationOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Create(model.NewJob(id, time.Now())))
	}

	ids := []string{}
	for _, j := range s.List() {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, 3, s.Len())
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(model.NewJob("a", time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Update("a", func(j *model.Job) error {
				j.SetTranscript(string(rune('a'+i%26))+"-model", model.TranscriptResult{Status: model.TranscriptDone})
				return nil
			})
		}(i)
	}
	wg.Wait()

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Len(t, got.Transcripts, 26)
}
