package pilot

import (
	"fmt"
	"strings"
)

// YearRanges groups consecutive seasons: 1950,1951,1952,1955 becomes
// [[1950 1952] [1955 1955]]. Input must be ascending.
func YearRanges(years []int) [][2]int {
	var ranges [][2]int
	for i, y := range years {
		if i > 0 && y-years[i-1] == 1 {
			ranges[len(ranges)-1][1] = y
			continue
		}
		ranges = append(ranges, [2]int{y, y})
	}
	return ranges
}

// FormatYears renders a season set for tooltips:
//
//	in 1958
//	from 1950 to 1955
//	in 1950–1953, 1957
func FormatYears(years []int) string {
	ranges := YearRanges(sortedUnique(years))
	switch {
	case len(ranges) == 0:
		return ""
	case len(ranges) == 1 && ranges[0][0] == ranges[0][1]:
		return fmt.Sprintf("in %d", ranges[0][0])
	case len(ranges) == 1:
		return fmt.Sprintf("from %d to %d", ranges[0][0], ranges[0][1])
	}

	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r[0] == r[1] {
			parts[i] = fmt.Sprintf("%d", r[0])
		} else {
			parts[i] = fmt.Sprintf("%d–%d", r[0], r[1])
		}
	}
	return "in " + strings.Join(parts, ", ")
}
