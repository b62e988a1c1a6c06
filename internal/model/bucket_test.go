package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFixture() *BucketSet {
	set := &BucketSet{
		Buckets: []*CohortBucket{
			{Period: Period{StartYear: 2000, EndYear: 2004}, Exposure: "current", Subtype: "LUAD", Count: 35, Total: 90},
			{Period: Period{StartYear: 2005, EndYear: 2009}, Exposure: "current", Subtype: "LUAD", Count: 20, Total: 80},
		},
		Periods:   []Period{{StartYear: 2000, EndYear: 2004}, {StartYear: 2005, EndYear: 2009}},
		Exposures: []string{"never", "former", "current"},
		Subtypes:  []string{"LUAD", "LUSC", "other"},
	}
	set.Reindex()
	return set
}

func TestBucketSetLookup(t *testing.T) {
	set := lookupFixture()
	key := StratumKey{Exposure: "current", Subtype: "LUAD"}

	t.Run("ExactPeriod", func(t *testing.T) {
		b := set.Lookup(key, Period{StartYear: 2000, EndYear: 2004})
		require.NotNil(t, b)
		assert.Equal(t, 35.0, b.Count)
	})

	t.Run("YearWithinBucket", func(t *testing.T) {
		b := set.Lookup(key, Year(2002))
		require.NotNil(t, b, "a raw year matches the bucket containing it")
		assert.Equal(t, Period{StartYear: 2000, EndYear: 2004}, b.Period)

		b = set.Lookup(key, Year(2007))
		require.NotNil(t, b)
		assert.Equal(t, Period{StartYear: 2005, EndYear: 2009}, b.Period)
	})

	t.Run("Misses", func(t *testing.T) {
		assert.Nil(t, set.Lookup(key, Year(2012)), "year outside every bucket")
		assert.Nil(t, set.Lookup(key, Period{StartYear: 2001, EndYear: 2003}), "range not on the grid")
		assert.Nil(t, set.Lookup(StratumKey{Exposure: "never", Subtype: "LUAD"}, Year(2002)), "stratum not in the set")
	})
}
