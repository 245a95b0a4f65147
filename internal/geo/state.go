package geo

// bboxCache holds a lazily computed bounding box. dirty is set whenever the cached
// value diverges from the "bbox" member of the backing record.
type bboxCache struct {
	box   *BoundingBox
	dirty bool
}

// get returns the cached box, computing and caching it when unset.
func (c *bboxCache) get(compute func() (BoundingBox, bool)) (BoundingBox, bool) {
	if c.box != nil {
		return *c.box, true
	}

	b, ok := compute()
	if !ok {
		return BoundingBox{}, false
	}
	c.box = &b
	c.dirty = true

	return b, true
}

func (c *bboxCache) present() bool {
	return c.box != nil
}

// invalidate drops the cached box. The stale record member is removed on the next save.
func (c *bboxCache) invalidate() {
	c.box = nil
	c.dirty = true
}

// load attaches the "bbox" member of doc without marking it dirty.
func (c *bboxCache) load(doc map[string]any) error {
	v, ok := doc["bbox"]
	if !ok || v == nil {
		return nil
	}

	b, err := bboxFrom(v)
	if err != nil {
		return err
	}
	c.box = &b

	return nil
}

// apply sets the "bbox" member of doc according to policy.
func (c *bboxCache) apply(doc map[string]any, policy BBoxPolicy, compute func() (BoundingBox, bool)) {
	switch policy {
	case Exclude:
	case Include:
		if b, ok := c.get(compute); ok {
			doc["bbox"] = b.ToJSON()
		}
	default:
		if c.box != nil {
			doc["bbox"] = c.box.ToJSON()
		}
	}
}

// flush patches the "bbox" member of rec if the cache changed since the last flush.
func (c *bboxCache) flush(rec map[string]any) {
	if !c.dirty {
		return
	}
	if c.box != nil {
		rec["bbox"] = c.box.ToJSON()
	} else {
		delete(rec, "bbox")
	}
	c.dirty = false
}

func (c bboxCache) clone() bboxCache {
	if c.box != nil {
		b := *c.box
		c.box = &b
	}

	return c
}

// base is the state shared by the geometry variants: the backing record, the bbox cache
// and the dirty flag of the variant's own coordinates.
type base struct {
	rec   map[string]any
	cache bboxCache
	dirty bool
}

func (b *base) object()   {}
func (b *base) geometry() {}

// HasBBox reports whether a box is cached, without computing one.
func (b *base) HasBBox() bool {
	return b.cache.present()
}

// Record returns the backing record.
func (b *base) Record() map[string]any {
	return b.rec
}

func (b *base) setRecord(rec map[string]any) {
	b.rec = rec
}

// changed marks the coordinates dirty and drops the cached box. Every coordinate
// mutator goes through it.
func (b *base) changed() {
	b.dirty = true
	b.cache.invalidate()
}

func (b *base) load(doc map[string]any) error {
	if err := b.cache.load(doc); err != nil {
		return err
	}
	b.rec = doc

	return nil
}

// document projects the variant: the foreign members of the record overlaid with
// the typed members.
func (b *base) document(t Type, key string, value any, policy BBoxPolicy, compute func() (BoundingBox, bool)) map[string]any {
	doc := foreign(b.rec, key)
	doc["type"] = string(t)
	doc[key] = value
	b.cache.apply(doc, policy, compute)

	return doc
}

// save patches the record. A variant built without a record gets a fresh one.
func (b *base) save(t Type, key string, value func() any) {
	if b.rec == nil {
		b.rec = map[string]any{"type": string(t)}
		b.dirty = true
		b.cache.dirty = true
	}
	if b.dirty {
		b.rec[key] = value()
		b.dirty = false
	}
	b.cache.flush(b.rec)
}

func (b *base) clone() base {
	return base{
		rec:   cloneRecord(b.rec),
		cache: b.cache.clone(),
		dirty: b.dirty,
	}
}

// foreign returns a deep copy of rec without the type, bbox and typed members.
func foreign(rec map[string]any, typed ...string) map[string]any {
	doc := make(map[string]any, len(rec)+2)
	for k, v := range rec {
		doc[k] = cloneValue(v)
	}
	delete(doc, "bbox")
	for _, k := range typed {
		delete(doc, k)
	}

	return doc
}

func cloneRecord(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}

	return cloneValue(rec).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []float64:
		return append([]float64(nil), t...)
	case [][]float64:
		return clone2(t)
	case [][][]float64:
		s := make([][][]float64, len(t))
		for i, e := range t {
			s[i] = clone2(e)
		}
		return s
	case [][][][]float64:
		s := make([][][][]float64, len(t))
		for i, e := range t {
			s[i] = cloneValue(e).([][][]float64)
		}
		return s
	default:
		return v
	}
}

func clone2(v [][]float64) [][]float64 {
	s := make([][]float64, len(v))
	for i, e := range v {
		s[i] = append([]float64(nil), e...)
	}

	return s
}
