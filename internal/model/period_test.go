package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodFromString(t *testing.T) {
	assert.Equal(t, Year(1990), PeriodFromString("1990"))
	assert.Equal(t, Period{StartYear: 1988, EndYear: 1992}, PeriodFromString("1988-1992"))
	assert.Equal(t, Period{StartYear: 1988, EndYear: 1992}, PeriodFromString(" 1988 - 1992 "))

	assert.False(t, PeriodFromString("").Valid())
	assert.False(t, PeriodFromString("abc").Valid())
	assert.False(t, PeriodFromString("1992-1988").Valid(), "reversed range is invalid")
	assert.False(t, PeriodFromString("-5").Valid())
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "1990", Year(1990).String())
	assert.Equal(t, "1988-1992", Period{StartYear: 1988, EndYear: 1992}.String())
}

func TestPeriodMidpoint(t *testing.T) {
	assert.InDelta(t, 1990.0, Year(1990).Midpoint(), 1e-12)
	assert.InDelta(t, 1990.0, Period{StartYear: 1988, EndYear: 1992}.Midpoint(), 1e-12)
	assert.InDelta(t, 1990.5, Period{StartYear: 1990, EndYear: 1991}.Midpoint(), 1e-12)
}

func TestPeriodIncludesOverlaps(t *testing.T) {
	p := Period{StartYear: 1988, EndYear: 1992}
	assert.True(t, p.Includes(1988))
	assert.True(t, p.Includes(1992))
	assert.False(t, p.Includes(1993))

	assert.True(t, p.Overlaps(Period{StartYear: 1992, EndYear: 1996}))
	assert.False(t, p.Overlaps(Period{StartYear: 1993, EndYear: 1996}))
	assert.True(t, p.Overlaps(Year(1990)))
}

func TestPeriodBefore(t *testing.T) {
	assert.True(t, Year(1990).Before(Year(1991)))
	assert.True(t, Year(1990).Before(Period{StartYear: 1990, EndYear: 1994}))
	assert.False(t, Year(1990).Before(Year(1990)))
}
