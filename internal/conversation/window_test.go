package conversation

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

func TestNewWindow(t *testing.T) {
	w := NewWindow()
	require.NotNil(t, w)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, "", w.Context())
	assert.Empty(t, w.Exchanges())
}

func TestWindow_EvictsOldest(t *testing.T) {
	w := NewWindow()
	for i := 1; i <= 4; i++ {
		w.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	assert.Equal(t, []domain.Exchange{
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
		{Question: "q4", Answer: "a4"},
	}, w.Exchanges())
}

func TestWindow_ContextRendersLastTwo(t *testing.T) {
	w := NewWindow()
	w.Append("q1", "a1")
	w.Append("q2", "a2")
	w.Append("q3", "a3")

	expected := "Previous conversation:\n" +
		"Q1: q2\nA1: a2...\n\n" +
		"Q2: q3\nA2: a3...\n\n"
	assert.Equal(t, expected, w.Context())
	assert.Equal(t, 3, w.Len())
}

func TestWindow_ContextSingleExchange(t *testing.T) {
	w := NewWindow()
	w.Append("What is revenue?", "Revenue is $1M.")

	assert.Equal(t, "Previous conversation:\nQ1: What is revenue?\nA1: Revenue is $1M....\n\n", w.Context())
}

func TestWindow_ContextTruncatesAnswers(t *testing.T) {
	w := NewWindow()
	long := strings.Repeat("é", 250)
	w.Append("q", long)

	ctx := w.Context()
	assert.Contains(t, ctx, "A1: "+strings.Repeat("é", 200)+"...\n")
	assert.NotContains(t, ctx, strings.Repeat("é", 201))
}

func TestWindow_Clear(t *testing.T) {
	w := NewWindow()
	w.Append("q", "a")
	w.Clear()

	assert.Equal(t, 0, w.Len())
	assert.Equal(t, "", w.Context())

	w.Append("q2", "a2")
	assert.Equal(t, 1, w.Len())
}

func TestWindow_ExchangesIsCopy(t *testing.T) {
	w := NewWindow()
	w.Append("q", "a")

	got := w.Exchanges()
	got[0].Answer = "mutated"

	assert.Equal(t, "a", w.Exchanges()[0].Answer)
}

func TestNewWindowWithSize(t *testing.T) {
	w := NewWindowWithSize(5, 1)
	for i := 0; i < 6; i++ {
		w.Append(fmt.Sprintf("q%d", i), "a")
	}

	assert.Equal(t, 5, w.Len())
	assert.Equal(t, "Previous conversation:\nQ1: q5\nA1: a...\n\n", w.Context())

	defaults := NewWindowWithSize(0, -1)
	assert.Equal(t, DefaultCapacity, defaults.capacity)
	assert.Equal(t, DefaultRenderCount, defaults.renderCount)
}

func TestWindow_ConcurrentAppend(t *testing.T) {
	w := NewWindow()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.Append(fmt.Sprintf("q%d", i), "a")
			_ = w.Context()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, DefaultCapacity, w.Len())
}
