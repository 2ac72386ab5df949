package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagerFollowsTokensUntilExhausted(t *testing.T) {
	p := NewPager()
	assert.True(t, p.More())
	assert.Equal(t, "", p.Token())

	assert.Equal(t, PageHasMore, p.Advance("A", nil))
	assert.Equal(t, "A", p.Token())
	assert.Equal(t, PageHasMore, p.Advance("B", nil))
	assert.Equal(t, PageExhausted, p.Advance("", nil))

	assert.False(t, p.More())
	assert.Equal(t, 3, p.Pages())
	assert.NoError(t, p.Err())
}

func TestPagerFailureIsTerminal(t *testing.T) {
	p := NewPager()
	p.Advance("A", nil)

	assert.Equal(t, PageFailed, p.Advance("", errBoom))
	assert.ErrorIs(t, p.Err(), errBoom)

	// Terminal states ignore further transitions.
	assert.Equal(t, PageFailed, p.Advance("C", nil))
	assert.Equal(t, 2, p.Pages())

	p.Stop()
	assert.Equal(t, PageFailed, p.State())
}

func TestPagerStop(t *testing.T) {
	p := NewPager()
	p.Advance("A", nil)
	p.Stop()

	assert.Equal(t, PageExhausted, p.State())
	assert.False(t, p.More())
	assert.NoError(t, p.Err())
}

func TestPageStateString(t *testing.T) {
	assert.Equal(t, "has-more", PageHasMore.String())
	assert.Equal(t, "exhausted", PageExhausted.String())
	assert.Equal(t, "failed", PageFailed.String())
	assert.Equal(t, "unknown", PageState(42).String())
}
