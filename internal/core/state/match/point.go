package match

// PointRecord is one played (or simulated) point.
//
// Contribution is the signed value each side earned from the point and feeds
// the momentum average. For real points only the winner's entry is nonzero.
// Momentum is the pair as of immediately after this point; it is derived and
// never changes once the record is in a PointLog.
type PointRecord struct {
	Contribution Pair
	Momentum     Pair
	Set          int // zero-based set index
}

// PointLog is the append-only, chronological record of real points.
// It is owned by a single writer (the match driver).
type PointLog struct {
	points []PointRecord
}

func NewPointLog() *PointLog {
	return &PointLog{}
}

func (l *PointLog) Append(r PointRecord) {
	l.points = append(l.points, r)
}

func (l *PointLog) Len() int { return len(l.points) }

// Last returns the most recent record, or false if the log is empty.
func (l *PointLog) Last() (PointRecord, bool) {
	if len(l.points) == 0 {
		return PointRecord{}, false
	}
	return l.points[len(l.points)-1], true
}

// View returns the records with capacity clipped to length, so appending to
// the returned slice always copies instead of writing into the log.
func (l *PointLog) View() []PointRecord {
	n := len(l.points)
	return l.points[:n:n]
}

// Tail returns a copy of at most the last n records whose set index is
// fromSet or later.
func (l *PointLog) Tail(fromSet, n int) []PointRecord {
	return Tail(l.points, fromSet, n)
}

// Tail is PointLog.Tail over a plain slice.
func Tail(points []PointRecord, fromSet, n int) []PointRecord {
	if n <= 0 {
		return nil
	}
	start := len(points)
	for start > 0 && len(points)-start < n && points[start-1].Set >= fromSet {
		start--
	}
	out := make([]PointRecord, len(points)-start)
	copy(out, points[start:])
	return out
}
