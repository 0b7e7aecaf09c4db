package utils

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes have a maximum imbalance of one
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 5000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Inverted bucket probe
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
			}
		}
		pm := NewPartitionMap(4, 10)
		bn, _, _ := pm.GetBucket(10)
		assert.Equal(t, -1, bn)
	}
	{ // Degree selection
		assert.Equal(t, 3, DefaultParallelDegree(8, 3))
		assert.Equal(t, 1, DefaultParallelDegree(4, 0))
		assert.Equal(t, 2, DefaultParallelDegree(2, 100))
		assert.True(t, DefaultParallelDegree(0, 1000000) >= 1)
	}
}

func TestParallelFor(t *testing.T) {
	{ // Every index visited once
		var (
			pm     = NewPartitionMap(7, 1000)
			visits = make([]int32, 1000)
		)
		err := pm.ParallelFor(func(bn, kMin, kMax int) error {
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&visits[k], 1)
			}
			return nil
		})
		assert.NoError(t, err)
		for _, v := range visits {
			assert.Equal(t, int32(1), v)
		}
	}
	{ // Lowest failing bucket wins
		var (
			pm   = NewPartitionMap(4, 40)
			bad1 = errors.New("bucket 1")
			bad3 = errors.New("bucket 3")
		)
		err := pm.ParallelFor(func(bn, kMin, kMax int) error {
			switch bn {
			case 1:
				return bad1
			case 3:
				return bad3
			}
			return nil
		})
		assert.Equal(t, bad1, err)
	}
	{
		var count int32
		assert.NoError(t, ParallelRun(5, func(np int) error {
			atomic.AddInt32(&count, int32(np))
			return nil
		}))
		assert.Equal(t, int32(10), count)
		assert.NoError(t, ParallelRun(0, func(np int) error { return errors.New("never") }))
	}
}

func TestMemUsage(t *testing.T) {
	alloc, sys, _ := MemUsage()
	assert.True(t, sys >= alloc)
}
