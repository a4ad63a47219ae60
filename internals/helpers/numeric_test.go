package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 77.5, Round2(77.5))
	assert.Equal(t, 42.13, Round2(42.125))
	assert.Equal(t, 91.67, Round2(91.666666))
	assert.Equal(t, -1.13, Round2(-1.125))
	assert.Equal(t, 0.0, Round2(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 66.67, Percent(2, 3))
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 100.0, Percent(5, 5))
}

func TestClampPaging(t *testing.T) {
	p := ClampPaging(0, 0, 25, MaxPerPage)
	assert.Equal(t, Paging{Page: 1, PerPage: 25, Offset: 0, Limit: 25}, p)

	p = ClampPaging(3, 500, 25, MaxPerPage)
	assert.Equal(t, Paging{Page: 3, PerPage: 100, Offset: 200, Limit: 100}, p)

	p = ClampPaging(2, -4, 25, MaxPerPage)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 1, p.Offset)
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
}
