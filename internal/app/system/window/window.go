// Package window supports virtualized rendering of large result lists: the
// consumer renders only the currently visible slice, positioning rows with
// a fixed height estimate refined by incremental measurement.
//
// The helpers here are pure index arithmetic; they know nothing about
// rendering or fetching.
package window

// Estimator tracks row heights: a fixed default for rows not yet measured,
// overridden per row as real measurements arrive.
type Estimator struct {
	defaultHeight int
	measured      map[int]int
}

// NewEstimator builds an estimator with the given default row height.
func NewEstimator(defaultHeight int) *Estimator {
	if defaultHeight <= 0 {
		defaultHeight = 1
	}
	return &Estimator{
		defaultHeight: defaultHeight,
		measured:      make(map[int]int),
	}
}

// Measure records the real height of one row, replacing the estimate.
func (e *Estimator) Measure(index, height int) {
	if height > 0 {
		e.measured[index] = height
	}
}

// Height returns the current height for a row (measured or estimated).
func (e *Estimator) Height(index int) int {
	if h, ok := e.measured[index]; ok {
		return h
	}
	return e.defaultHeight
}

// Offset returns the pixel offset of a row's top edge.
func (e *Estimator) Offset(index int) int {
	off := 0
	for i := 0; i < index; i++ {
		off += e.Height(i)
	}
	return off
}

// TotalHeight returns the estimated height of the whole list.
func (e *Estimator) TotalHeight(count int) int {
	return e.Offset(count)
}

// Range is an inclusive row index window [First, Last].
type Range struct {
	First int
	Last  int
}

// VisibleRange computes which rows of a count-row list intersect the
// viewport [scrollTop, scrollTop+viewportHeight), widened by overscan rows
// on each side. Returns a zero-width range (-1, -1) for an empty list.
func (e *Estimator) VisibleRange(scrollTop, viewportHeight, count, overscan int) Range {
	if count <= 0 || viewportHeight <= 0 {
		return Range{First: -1, Last: -1}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}

	first := 0
	off := 0
	for first < count-1 && off+e.Height(first) <= scrollTop {
		off += e.Height(first)
		first++
	}

	last := first
	bottom := scrollTop + viewportHeight
	for last < count-1 && off+e.Height(last) < bottom {
		off += e.Height(last)
		last++
	}

	first -= overscan
	if first < 0 {
		first = 0
	}
	last += overscan
	if last > count-1 {
		last = count - 1
	}
	return Range{First: first, Last: last}
}

// NearEnd reports whether the last visible row is within margin rows of the
// end of the loaded list. It is a level-triggered predicate: callers
// re-evaluate it on every visibility signal, so passing the trigger region
// quickly once does not lose the load.
func NearEnd(lastVisible, count, margin int) bool {
	if count == 0 {
		return true // nothing loaded yet; any visibility signal should load
	}
	return lastVisible >= count-1-margin
}
