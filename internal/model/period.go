package model

import (
	"strconv"
	"strings"
)

// Period is a calendar year or an inclusive year range. Survey waves that
// span several years and per-year registry rows both map onto it.
type Period struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`
}

func Year(y int) Period {
	return Period{StartYear: y, EndYear: y}
}

func (p Period) String() string {
	if p.StartYear == p.EndYear {
		return strconv.Itoa(p.StartYear)
	}
	return strconv.Itoa(p.StartYear) + "-" + strconv.Itoa(p.EndYear)
}

// Midpoint is the time axis value used when fitting trends over periods of
// uneven width.
func (p Period) Midpoint() float64 {
	return (float64(p.StartYear) + float64(p.EndYear)) / 2
}

func (p Period) Includes(year int) bool {
	return year >= p.StartYear && year <= p.EndYear
}

func (p Period) Overlaps(other Period) bool {
	return p.StartYear <= other.EndYear && other.StartYear <= p.EndYear
}

func (p Period) Before(other Period) bool {
	if p.StartYear != other.StartYear {
		return p.StartYear < other.StartYear
	}
	return p.EndYear < other.EndYear
}

func (p Period) Valid() bool {
	return p.StartYear > 0 && p.EndYear >= p.StartYear
}

// PeriodFromString parses "1990" or "1988-1992". Returns the zero Period
// when s is not parseable; callers check Valid().
func PeriodFromString(s string) Period {
	s = strings.TrimSpace(s)
	if s == "" {
		return Period{}
	}

	if start, end, found := strings.Cut(s, "-"); found {
		startYear, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return Period{}
		}
		endYear, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return Period{}
		}
		return Period{StartYear: startYear, EndYear: endYear}
	}

	year, err := strconv.Atoi(s)
	if err != nil {
		return Period{}
	}
	return Year(year)
}
