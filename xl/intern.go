package xl

// table interns comparable values. Ids are dense, stable and never reused.
type table[K comparable] struct {
	items []K
	index map[K]int
}

func newTable[K comparable]() *table[K] {
	return &table[K]{index: map[K]int{}}
}

// intern returns the id of k, appending it when it has not been seen.
func (t *table[K]) intern(k K) (id int, added bool) {
	if id, ok := t.index[k]; ok {
		return id, false
	}
	id = len(t.items)
	t.items = append(t.items, k)
	t.index[k] = id
	return id, true
}

func (t *table[K]) at(id int) K { return t.items[id] }

func (t *table[K]) len() int { return len(t.items) }
