package utils

import (
	"sync"
	"testing"

	"go.viam.com/test"
)

func TestGroupWorkParallel(t *testing.T) {
	for _, size := range []int{0, 1, 3, ParallelFactor, ParallelFactor + 1, 10*ParallelFactor + 7} {
		var mu sync.Mutex
		seen := make([]int, size)
		groups := 0
		mismatches := 0
		GroupWorkParallel(size, func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			if to-from != groupSize {
				mu.Lock()
				mismatches++
				mu.Unlock()
			}
			return func(memberNum, workNum int) {
					mu.Lock()
					if workNum != from+memberNum {
						mismatches++
					}
					seen[workNum]++
					mu.Unlock()
				}, func() {
					mu.Lock()
					groups++
					mu.Unlock()
				}
		})
		test.That(t, mismatches, test.ShouldEqual, 0)
		for _, count := range seen {
			test.That(t, count, test.ShouldEqual, 1)
		}
		if size > 0 {
			test.That(t, groups, test.ShouldBeGreaterThan, 0)
			test.That(t, groups, test.ShouldBeLessThanOrEqualTo, ParallelFactor)
		}
	}
}

func TestParallelForEachRow(t *testing.T) {
	const height = 37
	rows := make([]int, height)
	ParallelForEachRow(height, func(y int) {
		rows[y] = y * 2
	})
	for y, v := range rows {
		test.That(t, v, test.ShouldEqual, y*2)
	}

	called := false
	ParallelForEachRow(0, func(y int) { called = true })
	test.That(t, called, test.ShouldBeFalse)
}
