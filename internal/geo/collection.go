package geo

import "slices"

// member is an element of a collection: a geometry or a feature.
type member[T any] interface {
	BBox() (BoundingBox, bool)
	Equal(other T) bool
	Clone() T
	Save()
	Record() map[string]any
	ToJSON(policy BBoxPolicy) map[string]any
}

// collection is the ordered collection engine held by GeometryCollection and
// FeatureCollection. The wrappers validate new members before delegating.
//
// Every mutation marks the membership dirty and drops the cached union box; with
// eager set the box is recomputed right away.
type collection[T member[T]] struct {
	items []T
	cache bboxCache
	dirty bool
}

func (c *collection[T]) changed(eager bool) {
	c.dirty = true
	c.cache.invalidate()
	if eager {
		c.bbox()
	}
}

func (c *collection[T]) add(item T, eager bool) int {
	c.items = append(c.items, item)
	c.changed(eager)

	return len(c.items)
}

func (c *collection[T]) addItems(items []T, eager bool) int {
	if len(items) == 0 {
		return len(c.items)
	}
	c.items = append(c.items, items...)
	c.changed(eager)

	return len(c.items)
}

// indexOf returns the index of the first item structurally equal to item, or -1.
func (c *collection[T]) indexOf(item T) int {
	for i, it := range c.items {
		if it.Equal(item) {
			return i
		}
	}

	return -1
}

func (c *collection[T]) removeByIndex(i int, eager bool) (T, bool) {
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}

	item := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.changed(eager)

	return item, true
}

func (c *collection[T]) remove(item T, eager bool) (T, bool) {
	return c.removeByIndex(c.indexOf(item), eager)
}

func (c *collection[T]) updateByIndex(i int, replacement T, eager bool) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.items[i] = replacement
	c.changed(eager)

	return true
}

func (c *collection[T]) update(target, replacement T, eager bool) bool {
	return c.updateByIndex(c.indexOf(target), replacement, eager)
}

func (c *collection[T]) get(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}

	return c.items[i].Clone(), true
}

// list returns deep copies of the items, so callers cannot bypass the mutators.
func (c *collection[T]) list() []T {
	items := make([]T, len(c.items))
	for i, it := range c.items {
		items[i] = it.Clone()
	}

	return items
}

func (c *collection[T]) len() int {
	return len(c.items)
}

func (c *collection[T]) equal(other *collection[T]) bool {
	if len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		if !c.items[i].Equal(other.items[i]) {
			return false
		}
	}

	return true
}

func (c *collection[T]) clone() collection[T] {
	items := make([]T, len(c.items))
	for i, it := range c.items {
		items[i] = it.Clone()
	}

	return collection[T]{items: items, cache: c.cache.clone(), dirty: c.dirty}
}

// relink attaches the item records to the elements of arr, the copy of the member list
// in a cloned parent record. It is a no-op while the membership is unsaved.
func (c *collection[T]) relink(arr any) {
	if c.dirty {
		return
	}

	recs, ok := arr.([]any)
	if !ok || len(recs) != len(c.items) {
		return
	}
	for i, it := range c.items {
		rec, ok := asMap(recs[i])
		h, holder := any(it).(recordHolder)
		if ok && holder {
			h.setRecord(rec)
		}
	}
}

func (c *collection[T]) bbox() (BoundingBox, bool) {
	return c.cache.get(c.union)
}

// union aggregates the boxes of the members rather than their raw positions.
func (c *collection[T]) union() (BoundingBox, bool) {
	boxes := make([]BoundingBox, 0, len(c.items))
	for _, it := range c.items {
		if b, ok := it.BBox(); ok {
			boxes = append(boxes, b)
		}
	}

	b, err := UnionBBox(boxes...)
	return b, err == nil
}

func (c *collection[T]) toJSON(policy BBoxPolicy) []any {
	docs := make([]any, len(c.items))
	for i, it := range c.items {
		docs[i] = it.ToJSON(policy)
	}

	return docs
}

// save saves every member, then patches the member list under key and the bbox of rec.
func (c *collection[T]) save(rec map[string]any, key string) {
	for _, it := range c.items {
		it.Save()
	}

	if c.dirty {
		recs := make([]any, len(c.items))
		for i, it := range c.items {
			recs[i] = it.Record()
		}
		rec[key] = recs
		c.dirty = false
	}
	c.cache.flush(rec)
}
