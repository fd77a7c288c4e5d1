package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRangeDefaults(t *testing.T) {
	r := ClampRange(1, 0, 10)
	assert.Equal(t, PageRange{Start: 1, End: 10}, r)
	assert.Equal(t, 10, r.Count())
}

func TestClampRangeStartBelowOne(t *testing.T) {
	r := ClampRange(-3, 5, 10)
	assert.Equal(t, PageRange{Start: 1, End: 5}, r)
}

func TestClampRangeEndBeyondTotal(t *testing.T) {
	r := ClampRange(2, 99, 10)
	assert.Equal(t, PageRange{Start: 2, End: 10}, r)
}

func TestClampRangeStartBeyondTotal(t *testing.T) {
	r := ClampRange(11, 0, 10)
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.Pages())
}

func TestClampRangeSinglePage(t *testing.T) {
	r := ClampRange(3, 3, 10)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []int{3}, r.Pages())
}

func TestClampRangeInverted(t *testing.T) {
	// start > end after clamping selects nothing rather than failing
	r := ClampRange(7, 4, 10)
	assert.True(t, r.Empty())
}

func TestRenderModeValid(t *testing.T) {
	assert.True(t, ModePageImage.Valid())
	assert.True(t, ModeTextCard.Valid())
	assert.True(t, ModeDrawtext.Valid())
	assert.True(t, ModeSubtitles.Valid())
	assert.False(t, RenderMode("watercolor").Valid())
}
