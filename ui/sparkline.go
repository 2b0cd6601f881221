package ui

import "strings"

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders data as a row of block characters, sampling evenly
// when there are more points than columns. lo and hi fix the scale so
// several lines can share it.
func sparkline(data []float64, width int, lo, hi float64) string {
	if width <= 0 {
		return ""
	}
	if len(data) == 0 {
		return strings.Repeat("▁", width)
	}

	cols := min(width, len(data))
	var b strings.Builder
	for c := 0; c < cols; c++ {
		v := data[c*len(data)/cols]
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

func bounds(series ...[]float64) (lo, hi float64) {
	first := true
	for _, s := range series {
		for _, v := range s {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}
