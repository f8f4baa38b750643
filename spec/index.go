package spec

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/dataspec/hint"
)

// Index is an inverted tag index over a completed collection, for set-based
// selection: posting sets per tag and per category combine with And/Or/
// AndNot and materialize back into specs in original order. The index is
// read-only; build it once after the walk and query it freely (concurrent
// reads are safe because the underlying collection is immutable).
type Index struct {
	specs Specs
	byTag map[hint.Tag]*roaring.Bitmap
	byCat map[string]*roaring.Bitmap
}

// NewIndex builds the inverted index for ss.
func NewIndex(ss Specs) *Index {
	ix := &Index{
		specs: ss.Clone(),
		byTag: make(map[hint.Tag]*roaring.Bitmap),
		byCat: make(map[string]*roaring.Bitmap),
	}
	for i, s := range ix.specs {
		for _, t := range s.Tags {
			bm, ok := ix.byTag[t]
			if !ok {
				bm = roaring.New()
				ix.byTag[t] = bm
			}
			bm.Add(uint32(i))

			if c := t.Category(); c != "" {
				cbm, ok := ix.byCat[c]
				if !ok {
					cbm = roaring.New()
					ix.byCat[c] = cbm
				}
				cbm.Add(uint32(i))
			}
		}
	}
	return ix
}

// Tag returns the posting set of specs carrying the tag. Unknown tags yield
// an empty set.
func (ix *Index) Tag(t hint.Tag) *PostingSet {
	if bm, ok := ix.byTag[t]; ok {
		return &PostingSet{ix: ix, bm: bm.Clone()}
	}
	return &PostingSet{ix: ix, bm: roaring.New()}
}

// Category returns the posting set of specs carrying any tag of the
// category.
func (ix *Index) Category(c string) *PostingSet {
	if bm, ok := ix.byCat[c]; ok {
		return &PostingSet{ix: ix, bm: bm.Clone()}
	}
	return &PostingSet{ix: ix, bm: roaring.New()}
}

// Pattern returns the posting set of specs whose ID fully matches the
// regular expression pattern.
func (ix *Index) Pattern(p string) (*PostingSet, error) {
	bm := roaring.New()
	for i, s := range ix.specs {
		ok, err := s.ID.Matches(p)
		if err != nil {
			return nil, err
		}
		if ok {
			bm.Add(uint32(i))
		}
	}
	return &PostingSet{ix: ix, bm: bm}, nil
}

// All returns the posting set of every indexed spec.
func (ix *Index) All() *PostingSet {
	bm := roaring.New()
	bm.AddRange(0, uint64(len(ix.specs)))
	return &PostingSet{ix: ix, bm: bm}
}

// PostingSet is a set of positions into the indexed collection. Operations
// return new sets; the receiver is never modified.
type PostingSet struct {
	ix *Index
	bm *roaring.Bitmap
}

// And intersects two posting sets.
func (p *PostingSet) And(q *PostingSet) *PostingSet {
	return &PostingSet{ix: p.ix, bm: roaring.And(p.bm, q.bm)}
}

// Or unions two posting sets.
func (p *PostingSet) Or(q *PostingSet) *PostingSet {
	return &PostingSet{ix: p.ix, bm: roaring.Or(p.bm, q.bm)}
}

// AndNot removes q's members from p.
func (p *PostingSet) AndNot(q *PostingSet) *PostingSet {
	return &PostingSet{ix: p.ix, bm: roaring.AndNot(p.bm, q.bm)}
}

// Len returns the set cardinality.
func (p *PostingSet) Len() int {
	return int(p.bm.GetCardinality())
}

// Specs materializes the set in original collection order.
func (p *PostingSet) Specs() Specs {
	out := make(Specs, 0, p.Len())
	it := p.bm.Iterator()
	for it.HasNext() {
		out = append(out, p.ix.specs[it.Next()])
	}
	return out
}
