package glyphatlas

import "golang.org/x/text/unicode/norm"

// GlyphKey uniquely identifies a placed glyph by the characters it
// renders and the style it was rendered with. Both parts are required:
// two glyphs that share Chars but differ in StyleKey receive distinct
// entries.
//
// Chars is stored Unicode-normalized (NFC) so that two byte-different
// but canonically equivalent strings (e.g. a precomposed accented
// letter vs. the base letter plus a combining mark) resolve to the
// same entry; this does not change the documented "same chars + same
// style => same entry" semantics, it only makes "same chars" robust to
// encoding differences the caller shouldn't have to think about.
type GlyphKey struct {
	Chars    string
	StyleKey int
}

func normalizedKey(chars string, styleKey int) GlyphKey {
	return GlyphKey{Chars: norm.NFC.String(chars), StyleKey: styleKey}
}

// GlyphMap is a read-only view over a GlyphIndex: keyed lookup plus
// iteration. Iteration order is not observable — callers must not rely
// on the order Range visits entries.
type GlyphMap interface {
	// Get returns the placed glyph for (chars, styleKey) and whether it
	// was found.
	Get(chars string, styleKey int) (PlacedGlyph, bool)

	// Len returns the number of entries.
	Len() int

	// Range calls fn for every entry. Iteration stops early if fn
	// returns false. Callers must not allocate concurrently with Range.
	Range(fn func(key GlyphKey, glyph PlacedGlyph) bool)
}

// GlyphIndex is the two-level keyed map from (chars, styleKey) to a
// placed glyph record. It is owned by a single allocator for that
// allocator's lifetime; external readers may iterate it only when no
// allocation is in progress, per the single-threaded resource model.
type GlyphIndex struct {
	entries map[GlyphKey]PlacedGlyph
}

// newGlyphIndex creates an empty glyph index.
func newGlyphIndex() *GlyphIndex {
	return &GlyphIndex{entries: make(map[GlyphKey]PlacedGlyph)}
}

// Get returns the placed glyph for (chars, styleKey) and whether it
// was found.
func (idx *GlyphIndex) Get(chars string, styleKey int) (PlacedGlyph, bool) {
	g, ok := idx.entries[normalizedKey(chars, styleKey)]
	return g, ok
}

// Len returns the number of entries in the index.
func (idx *GlyphIndex) Len() int {
	return len(idx.entries)
}

// Range calls fn for every entry until fn returns false.
func (idx *GlyphIndex) Range(fn func(key GlyphKey, glyph PlacedGlyph) bool) {
	for k, g := range idx.entries {
		if !fn(k, g) {
			return
		}
	}
}

// insert records a placement under (chars, styleKey). Per spec,
// duplicate keys may be overwritten with a second placement; the
// previous canvas region becomes orphaned but still drawn. Callers are
// expected to dedupe before calling Allocate.
func (idx *GlyphIndex) insert(chars string, styleKey int, glyph PlacedGlyph) {
	idx.entries[normalizedKey(chars, styleKey)] = glyph
}

var _ GlyphMap = (*GlyphIndex)(nil)
