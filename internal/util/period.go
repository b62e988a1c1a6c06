package util

import (
	"github.com/histotrend/backend/internal/model"
)

// BucketFor maps a record's period onto the calendar-aligned bucket of the
// given width in years. Buckets are anchored at year 0 so the assignment is
// independent of what other records are present. A multi-year record period
// is assigned by its midpoint year.
func BucketFor(p model.Period, widthYears int) model.Period {
	if widthYears <= 1 {
		if p.StartYear == p.EndYear {
			return p
		}
		return model.Year(midYear(p))
	}

	my := midYear(p)
	start := my - ((my % widthYears)+widthYears)%widthYears
	return model.Period{StartYear: start, EndYear: start + widthYears - 1}
}

func midYear(p model.Period) int {
	return (p.StartYear + p.EndYear) / 2
}

// Interpolate returns the linear interpolation of (x0,y0)-(x1,y1) at x.
func Interpolate(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
