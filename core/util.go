package core

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ISODate is the layout of attendance and metadata timestamps.
	ISODate = "2006-01-02"
	// DayMonthYear is the layout of exam and topic dates.
	DayMonthYear = "02/01/2006"
)

var (
	NowFunc = time.Now // mockable

	folder = cases.Fold()
	upper  = cases.Upper(language.Und)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanLabel trims `s` and upper-cases it. Sections and subject codes are stored this way.
func CleanLabel(s string) string {
	return upper.String(strings.TrimSpace(s))
}

// Fold returns the case-folded form of `s`, for case-insensitive comparisons.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// FoldEqual reports whether a and b are equal under Unicode case folding.
func FoldEqual(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether `s` is in `list`, ignoring case.
func ContainsFold(list []string, s string) bool {
	f := Fold(s)
	for _, item := range list {
		if Fold(item) == f {
			return true
		}
	}
	return false
}

func Today() string {
	return NowFunc().Format(ISODate)
}

func TodayDMY() string {
	return NowFunc().Format(DayMonthYear)
}
