// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
)

type tokenKind int

const (
	tokYear tokenKind = iota
	tokYear2
	tokMonth
	tokMonthAbbr
	tokMonthName
	tokDay
	tokWeekdayAbbr
	tokWeekdayName
	tokHour24
	tokHour12
	tokMinute
	tokSecond
	tokFraction
	tokMeridiem
	tokOffset
	tokOffsetHours
)

var (
	monthNames   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// datePattern is a compiled custom date/time format such as "yyyyMMdd" or
// "dd/MM/yyyy HH:mm:ss.fff". Matching is exact: the whole input must match.
type datePattern struct {
	source string
	re     *regexp.Regexp
	tokens []tokenKind
}

var patternCache = mustCache()

func mustCache() *lru.Cache[string, *datePattern] {
	c, err := lru.New[string, *datePattern](defaults.PatternCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// compileDatePattern returns the cached compiled form of format.
func compileDatePattern(format string) (*datePattern, error) {
	if p, ok := patternCache.Get(format); ok {
		return p, nil
	}
	p, err := parseDatePattern(format)
	if err != nil {
		return nil, err
	}
	patternCache.Add(format, p)
	return p, nil
}

func parseDatePattern(format string) (*datePattern, error) {
	var (
		expr   strings.Builder
		tokens []tokenKind
		rs     = []rune(format)
	)
	expr.WriteString("^")

	group := func(kind tokenKind, re string) {
		expr.WriteString("(" + re + ")")
		tokens = append(tokens, kind)
	}

	for i := 0; i < len(rs); {
		c := rs[i]

		switch c {
		case '\'', '"':
			end := i + 1
			for end < len(rs) && rs[end] != c {
				end++
			}
			if end >= len(rs) {
				return nil, fmt.Errorf("unterminated quoted literal in date format %q", format)
			}
			expr.WriteString(regexp.QuoteMeta(string(rs[i+1 : end])))
			i = end + 1
			continue
		case '\\':
			if i+1 >= len(rs) {
				return nil, fmt.Errorf("dangling escape in date format %q", format)
			}
			expr.WriteString(regexp.QuoteMeta(string(rs[i+1])))
			i += 2
			continue
		case '%':
			// %d means the single-letter specifier d
			i++
			continue
		}

		n := 1
		for i+n < len(rs) && rs[i+n] == c {
			n++
		}

		switch c {
		case 'y':
			switch {
			case n <= 2:
				group(tokYear2, fmt.Sprintf(`\d{%d,2}`, n))
			default:
				group(tokYear, fmt.Sprintf(`\d{%d}`, n))
			}
		case 'M':
			switch n {
			case 1:
				group(tokMonth, `\d{1,2}`)
			case 2:
				group(tokMonth, `\d{2}`)
			case 3:
				group(tokMonthAbbr, alternation(monthNames, 3))
			default:
				group(tokMonthName, alternation(monthNames, 0))
			}
		case 'd':
			switch n {
			case 1:
				group(tokDay, `\d{1,2}`)
			case 2:
				group(tokDay, `\d{2}`)
			case 3:
				group(tokWeekdayAbbr, alternation(weekdayNames, 3))
			default:
				group(tokWeekdayName, alternation(weekdayNames, 0))
			}
		case 'H':
			group(tokHour24, digits(n))
		case 'h':
			group(tokHour12, digits(n))
		case 'm':
			group(tokMinute, digits(n))
		case 's':
			group(tokSecond, digits(n))
		case 'f':
			if n > 7 {
				return nil, fmt.Errorf("too many fraction digits in date format %q", format)
			}
			group(tokFraction, fmt.Sprintf(`\d{%d}`, n))
		case 'F':
			if n > 7 {
				return nil, fmt.Errorf("too many fraction digits in date format %q", format)
			}
			group(tokFraction, fmt.Sprintf(`\d{0,%d}`, n))
		case 't':
			if n == 1 {
				group(tokMeridiem, `(?i:[AP])`)
			} else {
				group(tokMeridiem, `(?i:AM|PM)`)
			}
		case 'z':
			switch n {
			case 1:
				group(tokOffsetHours, `[+-]\d{1,2}`)
			case 2:
				group(tokOffsetHours, `[+-]\d{2}`)
			default:
				group(tokOffset, `[+-]\d{2}:\d{2}`)
			}
		default:
			expr.WriteString(regexp.QuoteMeta(strings.Repeat(string(c), n)))
		}
		i += n
	}

	expr.WriteString("$")
	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile date format %q: %w", format, err)
	}
	return &datePattern{source: format, re: re, tokens: tokens}, nil
}

func digits(n int) string {
	if n == 1 {
		return `\d{1,2}`
	}
	return `\d{2}`
}

// alternation builds a case-insensitive group of names, truncated to n runes when n > 0.
func alternation(names []string, n int) string {
	alts := make([]string, len(names))
	for i, name := range names {
		if n > 0 && len(name) > n {
			name = name[:n]
		}
		alts[i] = regexp.QuoteMeta(name)
	}
	return "(?i:" + strings.Join(alts, "|") + ")"
}

// dateFields collects what a match says about the instant.
type dateFields struct {
	year, month, day int
	hour24, hour12   int
	minute, second   int
	nanos            int
	weekday          int

	pm          bool
	hasMeridiem bool
	hasYear     bool
	hasMonth    bool
	hasDay      bool
	hasWeekday  bool

	seen map[tokenKind]int
}

// set records a value and reports false if the same field was already set differently.
func (f *dateFields) set(kind tokenKind, v int) bool {
	if prev, ok := f.seen[kind]; ok && prev != v {
		return false
	}
	f.seen[kind] = v
	return true
}

// Match reports whether s is exactly a valid instant in this pattern.
func (p *datePattern) Match(s string) bool {
	m := p.re.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	f := dateFields{month: 1, day: 1, hour24: -1, seen: make(map[tokenKind]int, len(p.tokens))}
	for i, kind := range p.tokens {
		if !f.apply(kind, m[i+1]) {
			return false
		}
	}
	return f.valid()
}

func (f *dateFields) apply(kind tokenKind, raw string) bool {
	switch kind {
	case tokYear, tokYear2:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return false
		}
		if kind == tokYear2 {
			// two-digit years pivot at 2049
			if v < 50 {
				v += 2000
			} else {
				v += 1900
			}
		}
		if v < 1 || !f.set(tokYear, v) {
			return false
		}
		f.year, f.hasYear = v, true
	case tokMonth, tokMonthAbbr, tokMonthName:
		v := nameIndex(monthNames, raw) + 1
		if kind == tokMonth {
			v, _ = strconv.Atoi(raw)
		}
		if v < 1 || v > 12 || !f.set(tokMonth, v) {
			return false
		}
		f.month, f.hasMonth = v, true
	case tokDay:
		v, _ := strconv.Atoi(raw)
		if v < 1 || v > 31 || !f.set(tokDay, v) {
			return false
		}
		f.day, f.hasDay = v, true
	case tokWeekdayAbbr, tokWeekdayName:
		v := nameIndex(weekdayNames, raw)
		if v < 0 || !f.set(tokWeekdayName, v) {
			return false
		}
		f.weekday, f.hasWeekday = v, true
	case tokHour24:
		v, _ := strconv.Atoi(raw)
		if v > 23 || !f.set(tokHour24, v) {
			return false
		}
		f.hour24 = v
	case tokHour12:
		v, _ := strconv.Atoi(raw)
		if v < 1 || v > 12 || !f.set(tokHour12, v) {
			return false
		}
		f.hour12 = v
	case tokMinute:
		v, _ := strconv.Atoi(raw)
		if v > 59 || !f.set(tokMinute, v) {
			return false
		}
		f.minute = v
	case tokSecond:
		v, _ := strconv.Atoi(raw)
		if v > 59 || !f.set(tokSecond, v) {
			return false
		}
		f.second = v
	case tokFraction:
		if raw == "" {
			return true
		}
		v, _ := strconv.Atoi((raw + "000000000")[:9])
		if !f.set(tokFraction, v) {
			return false
		}
		f.nanos = v
	case tokMeridiem:
		pm := strings.EqualFold(raw[:1], "P")
		v := 0
		if pm {
			v = 1
		}
		if !f.set(tokMeridiem, v) {
			return false
		}
		f.pm, f.hasMeridiem = pm, true
	case tokOffset, tokOffsetHours:
		sign := 1
		if raw[0] == '-' {
			sign = -1
		}
		hh, mm := raw[1:], "0"
		if kind == tokOffset {
			hh, mm = raw[1:3], raw[4:]
		}
		h, _ := strconv.Atoi(hh)
		mi, _ := strconv.Atoi(mm)
		if h > 14 || mi > 59 {
			return false
		}
		return f.set(tokOffset, sign*(h*60+mi))
	}
	return true
}

func (f *dateFields) valid() bool {
	hour := 0
	switch {
	case f.hour12 > 0:
		hour = f.hour12 % 12
		if f.pm {
			hour += 12
		}
		if f.hour24 >= 0 && f.hour24 != hour {
			return false
		}
	case f.hour24 >= 0:
		hour = f.hour24
		// a designator next to a 24-hour clock must agree with it
		if f.hasMeridiem && f.pm != (hour >= 12) {
			return false
		}
	}

	year := f.year
	if !f.hasYear {
		// leap year so a bare 29 February is accepted
		year = 2000
	}

	t := time.Date(year, time.Month(f.month), f.day, hour, f.minute, f.second, f.nanos, time.UTC)
	if t.Year() != year || int(t.Month()) != f.month || t.Day() != f.day {
		return false
	}
	if f.hasWeekday && f.hasYear && f.hasMonth && f.hasDay && int(t.Weekday()) != f.weekday {
		return false
	}
	return true
}

func nameIndex(names []string, raw string) int {
	for i, name := range names {
		if strings.EqualFold(name, raw) || (len(raw) == 3 && strings.EqualFold(name[:3], raw)) {
			return i
		}
	}
	return -1
}
