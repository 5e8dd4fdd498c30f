package cache

import "container/list"

// slot ties an issued timestamp to the key it was issued for.
type slot struct {
	ts  int64
	key string
}

// expiryIndex is an ordered timestamp → key mapping supporting O(1) insert,
// remove and oldest-peek.
//
// It relies on the cache's issuance invariant: timestamps handed to insert
// are strictly increasing, so appending keeps the list sorted and the front
// element is always the oldest slot. Swap preserves the invariant because
// the timestamp counter travels together with the indexes.
type expiryIndex struct {
	order *list.List              // of slot, front = oldest
	byTS  map[int64]*list.Element // removal by timestamp
}

func newExpiryIndex() *expiryIndex {
	return &expiryIndex{
		order: list.New(),
		byTS:  make(map[int64]*list.Element),
	}
}

// insert appends a slot. ts must be greater than every timestamp already in
// the index.
func (x *expiryIndex) insert(ts int64, key string) {
	x.byTS[ts] = x.order.PushBack(slot{ts: ts, key: key})
}

// remove deletes the slot issued at ts, reporting whether it existed.
func (x *expiryIndex) remove(ts int64) bool {
	el, ok := x.byTS[ts]
	if !ok {
		return false
	}
	x.order.Remove(el)
	delete(x.byTS, ts)
	return true
}

// front returns the oldest slot without removing it.
func (x *expiryIndex) front() (slot, bool) {
	el := x.order.Front()
	if el == nil {
		return slot{}, false
	}
	return el.Value.(slot), true
}

func (x *expiryIndex) len() int { return x.order.Len() }

func (x *expiryIndex) reset() {
	x.order.Init()
	x.byTS = make(map[int64]*list.Element)
}
