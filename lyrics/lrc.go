// Package lyrics parses LRC formatted lyrics into timed lines.
package lyrics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"harmonic/types"
)

// timeTag matches [mm:ss], [mm:ss.xx] and [mm:ss.xxx]
var timeTag = regexp.MustCompile(`\[(\d{2}):(\d{2})(?:\.(\d{2,3}))?\]`)

// Parse returns one line per time tag, sorted by time. A line with several
// tags is repeated at each of its times; lines without tags are dropped.
func Parse(text string) []types.LyricLine {
	lines := []types.LyricLine{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		matches := timeTag.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		lyric := strings.TrimSpace(line[matches[len(matches)-1][1]:])
		for _, m := range matches {
			lines = append(lines, types.LyricLine{
				Time: tagSeconds(line, m),
				Text: lyric,
			})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
	return lines
}

// tagSeconds converts one submatch index set of timeTag into seconds.
// Two fractional digits are hundredths, three are milliseconds.
func tagSeconds(line string, m []int) float64 {
	minutes, _ := strconv.Atoi(line[m[2]:m[3]])
	seconds, _ := strconv.Atoi(line[m[4]:m[5]])

	var millis int
	if m[6] >= 0 {
		frac := line[m[6]:m[7]]
		millis, _ = strconv.Atoi(frac)
		if len(frac) == 2 {
			millis *= 10
		}
	}

	return float64(minutes*60+seconds) + float64(millis)/1000
}

// CurrentLine returns the index of the last line starting at or before
// position (seconds), or -1 if there is none.
func CurrentLine(lines []types.LyricLine, position float64) int {
	if len(lines) == 0 || position < lines[0].Time {
		return -1
	}

	// first index whose time is after position
	next := sort.Search(len(lines), func(i int) bool {
		return lines[i].Time > position
	})
	return next - 1
}

// IsSynced reports whether text carries at least one LRC time tag
func IsSynced(text string) bool {
	return len(Parse(text)) > 0
}
