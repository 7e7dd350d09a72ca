package collector

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOrdered(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}
	var inFlight, peak atomic.Int32

	got := runOrdered(items, 2, func(n int) int {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(time.Duration(n) * time.Millisecond)
		inFlight.Add(-1)
		return n * 10
	})

	assert.Equal(t, []int{50, 40, 30, 20, 10}, got)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunOrdered_Edges(t *testing.T) {
	assert.Nil(t, runOrdered([]int{}, 3, func(n int) int { return n }))
	assert.Equal(t, []int{1, 2}, runOrdered([]int{1, 2}, 0, func(n int) int { return n }))
	assert.Equal(t, []int{2}, runOrdered([]int{1}, 8, func(n int) int { return n + 1 }))
}
