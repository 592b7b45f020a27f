// Package duedate resolves due date expressions into the YYYY-MM-DD form
// Jira expects in the "duedate" field.
package duedate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the date format of the Jira duedate field.
const Layout = "2006-01-02"

// Resolve resolves expr relative to the current time.
//
// Supported forms:
//   - Exact dates: "2025-12-31"
//   - Relative offsets: "+30d", "+6w", "+3m"
//   - Keywords: "today", "end-of-month", "end-of-quarter", "end-of-year"
//
// An empty expression resolves to an empty date, leaving the field unset.
func Resolve(expr string) (string, error) {
	return ResolveFrom(expr, time.Now())
}

// ResolveFrom resolves expr relative to now.
func ResolveFrom(expr string, now time.Time) (string, error) {
	expr = strings.TrimSpace(strings.ToLower(expr))
	if expr == "" {
		return "", nil
	}

	if t, err := time.Parse(Layout, expr); err == nil {
		return t.Format(Layout), nil
	}

	year, month, _ := now.Date()
	switch expr {
	case "today":
		return format(now), nil
	case "end-of-month":
		return format(lastDay(year, month, now.Location())), nil
	case "end-of-quarter":
		qEnd := time.Month((int(month)-1)/3*3 + 3)
		return format(lastDay(year, qEnd, now.Location())), nil
	case "end-of-year":
		return format(lastDay(year, time.December, now.Location())), nil
	}

	if strings.HasPrefix(expr, "+") && len(expr) >= 3 {
		unit := expr[len(expr)-1]
		n, err := strconv.Atoi(expr[1 : len(expr)-1])
		if err == nil && n >= 0 {
			switch unit {
			case 'd':
				return format(now.AddDate(0, 0, n)), nil
			case 'w':
				return format(now.AddDate(0, 0, n*7)), nil
			case 'm':
				return format(now.AddDate(0, n, 0)), nil
			default:
				return "", fmt.Errorf("unknown relative unit %q in %q (use d, w, or m)", string(unit), expr)
			}
		}
	}

	return "", fmt.Errorf("unrecognized due date: %q", expr)
}

// lastDay returns the last day of month m in year y.
func lastDay(y int, m time.Month, loc *time.Location) time.Time {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
}

func format(t time.Time) string {
	return t.Format(Layout)
}
