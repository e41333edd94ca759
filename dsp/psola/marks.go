package psola

import (
	"sort"

	"github.com/cwbudde/algo-voxlab/dsp/buffer"
)

// PitchMarks converts window estimates into glottal-cycle marks. Starting
// at the first window's offset it records the position, then advances by
// the period of the nearest preceding window, until the position leaves
// the buffer. A zero period stops the walk after recording the mark.
// No windows yields no marks.
func PitchMarks(buf *buffer.Buffer, windows []WindowEstimate) []int {
	if len(windows) == 0 {
		return nil
	}

	n := buf.Len()
	pos := windows[0].Start
	idx := 0
	lag := windows[0].Period

	var marks []int
	for pos < n {
		marks = append(marks, pos)

		for idx+1 < len(windows) && windows[idx+1].Start <= pos {
			idx++
			lag = windows[idx].Period
		}

		if lag <= 0 {
			break
		}
		pos += lag
	}

	return marks
}

// LastMarkAtOrBefore returns the last mark <= bound.
func LastMarkAtOrBefore(marks []int, bound int) (int, bool) {
	i := sort.Search(len(marks), func(i int) bool { return marks[i] > bound })
	if i == 0 {
		return 0, false
	}
	return marks[i-1], true
}

// FirstMarkAtOrAfter returns the first mark >= bound.
func FirstMarkAtOrAfter(marks []int, bound int) (int, bool) {
	i := sort.Search(len(marks), func(i int) bool { return marks[i] >= bound })
	if i == len(marks) {
		return 0, false
	}
	return marks[i], true
}
