package transcript

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

func TestAppendKeepsOrder(t *testing.T) {
	s := NewStore()
	s.Append(model.TextMessage("one", model.LanguageNone))
	s.Append(model.TextMessage("two", model.LanguageEnglish), model.SourceMessage("three"))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	assert.Equal(t, model.KindSource, msgs[2].Kind)
}

func TestSinceReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(model.TextMessage("a", ""), model.TextMessage("b", ""))

	tail := s.Since(1)
	require.Len(t, tail, 1)
	tail[0].Text = "mutated"
	assert.Equal(t, "b", s.Messages()[1].Text)
	assert.Nil(t, s.Since(5))
}

func TestChangedClosesOnAppend(t *testing.T) {
	s := NewStore()
	ch := s.Changed()
	s.Append()
	select {
	case <-ch:
		t.Fatalf("empty append should not notify")
	default:
	}
	s.Append(model.TextMessage("x", ""))
	select {
	case <-ch:
	default:
		t.Fatalf("expected notification")
	}
}

func TestBatchesAreNotInterleaved(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(model.TextMessage("head", ""), model.SourceMessage("tail"))
		}()
	}
	wg.Wait()
	msgs := s.Messages()
	require.Len(t, msgs, 100)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, "head", msgs[i].Text)
		assert.Equal(t, "tail", msgs[i+1].Text)
	}
}
