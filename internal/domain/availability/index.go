package availability

import (
	"bytes"
	"time"

	"reservation-engine/internal/domain/reservation"

	"github.com/google/btree"
	"github.com/google/uuid"
)

const btreeDegree = 16

type entry struct {
	start time.Time
	end   time.Time
	id    uuid.UUID
}

func lessEntry(a, b entry) bool {
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	return bytes.Compare(a.id[:], b.id[:]) < 0
}

// IntervalIndex holds the blocking intervals of one resource ordered by start date.
// Insert refuses overlapping entries, so stored intervals are pairwise disjoint and
// their end dates are ordered the same way as their start dates. Overlapping relies on it.
//
// IntervalIndex is not safe for concurrent use.
type IntervalIndex struct {
	tree *btree.BTreeG[entry]
}

func NewIntervalIndex() *IntervalIndex {
	return &IntervalIndex{tree: btree.NewG(btreeDegree, lessEntry)}
}

// Insert adds id over iv unless iv overlaps a stored interval, in which case the
// overlapping ids are returned and the index is unchanged.
func (x *IntervalIndex) Insert(id uuid.UUID, iv reservation.Interval) (conflicts []uuid.UUID, ok bool) {
	if conflicts = x.Overlapping(iv); len(conflicts) > 0 {
		return conflicts, false
	}
	x.tree.ReplaceOrInsert(entry{start: iv.Start(), end: iv.End(), id: id})
	return nil, true
}

func (x *IntervalIndex) Delete(id uuid.UUID, iv reservation.Interval) bool {
	_, found := x.tree.Delete(entry{start: iv.Start(), end: iv.End(), id: id})
	return found
}

// Overlapping returns the ids of stored intervals overlapping iv, in start order.
// Cost is O(log n + k).
func (x *IntervalIndex) Overlapping(iv reservation.Interval) []uuid.UUID {
	var found []uuid.UUID
	// uuid.Nil sorts first, so the pivot admits only entries starting strictly before iv.End().
	pivot := entry{start: iv.End(), id: uuid.Nil}
	x.tree.DescendLessOrEqual(pivot, func(e entry) bool {
		if !e.end.After(iv.Start()) {
			return false
		}
		if e.start.Before(iv.End()) {
			found = append(found, e.id)
		}
		return true
	})

	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found
}

func (x *IntervalIndex) Len() int {
	return x.tree.Len()
}

// Clone returns a copy-on-write snapshot.
func (x *IntervalIndex) Clone() *IntervalIndex {
	return &IntervalIndex{tree: x.tree.Clone()}
}
