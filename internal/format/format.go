// Package format renders money, counts and dates for terminal output.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dropline/internal/domain"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders whole US dollars with grouping, e.g. $38,500.
func Currency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// Compact shortens large counts to one decimal with a K or M suffix.
func Compact(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Date renders a stored date as "Jan 2, 2006". Unparseable input is returned as is.
func Date(s string) string {
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

const day = 24 * time.Hour

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: day, Format: "Today", DivBy: day},
	{D: 2 * day, Format: "Yesterday", DivBy: day},
	{D: 7 * day, Format: "%d days %s", DivBy: day},
	{D: 30 * day, Format: "%d weeks %s", DivBy: 7 * day},
	{D: 365 * day, Format: "%d months %s", DivBy: 30 * day},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: 365 * day},
}

// Relative describes how long ago s was, relative to now.
func Relative(s string, now time.Time) string {
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}
