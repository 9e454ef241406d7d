package ftindex

// ForwardEntry is the per-term accumulator a ForwardIndex holds while one
// document is being tokenized.
type ForwardEntry struct {
	Frequency int
	Positions []int
	FieldMask FieldTypeMask
}

// ForwardIndex is the transient, per-document term -> postings scratch
// space built by the fulltext preprocessor and folded into the inverted
// index by the IndexerQueue. It is designed to be reused across ingests on
// the same worker (object-pool style, see the AddDocumentContext pool):
// Reset clears the map without discarding its backing allocation, and
// TotalTokens/ByteOffsets keep the running state the fulltext preprocessor
// needs to stitch multiple fields' token streams into one global ordering.
type ForwardIndex struct {
	terms map[string]*ForwardEntry

	// TotalTokens is the running count of tokens emitted across all
	// fields processed for the current document so far. The fulltext
	// preprocessor sets it to the last position it assigned, the same
	// watermark it returns to its caller as the next field's base
	// position, which keeps per-field positions contiguous and ordered.
	TotalTokens int

	// ByteOffsets records, per ftID, the (firstTokenPos, lastTokenPos)
	// region contributed by that field — used by a retrieval layer doing
	// highlighting; the fulltext preprocessor records it for every
	// fulltext field it tokenizes.
	ByteOffsets map[int][2]int
}

// NewForwardIndex constructs an empty, ready-to-use ForwardIndex.
func NewForwardIndex() *ForwardIndex {
	fi := &ForwardIndex{}
	fi.Reset()
	return fi
}

// Reset clears all per-document state in place, without reallocating the
// backing maps, so the same ForwardIndex can be handed to the next
// document on a recycled AddDocumentContext.
func (fi *ForwardIndex) Reset() {
	if fi.terms == nil {
		fi.terms = make(map[string]*ForwardEntry)
	} else {
		for k := range fi.terms {
			delete(fi.terms, k)
		}
	}
	if fi.ByteOffsets == nil {
		fi.ByteOffsets = make(map[int][2]int)
	} else {
		for k := range fi.ByteOffsets {
			delete(fi.ByteOffsets, k)
		}
	}
	fi.TotalTokens = 0
}

// AddToken records one occurrence of term at the given absolute position,
// contributed by a field whose resolved indexAs includes fieldBit.
func (fi *ForwardIndex) AddToken(term string, position int, fieldBit FieldTypeMask) {
	e, ok := fi.terms[term]
	if !ok {
		e = &ForwardEntry{}
		fi.terms[term] = e
	}
	e.Frequency++
	e.Positions = append(e.Positions, position)
	e.FieldMask |= fieldBit
}

// RecordFieldOffsets stores the byte-offset region contributed by ftID.
func (fi *ForwardIndex) RecordFieldOffsets(ftID, firstTokenPos, lastOffset int) {
	fi.ByteOffsets[ftID] = [2]int{firstTokenPos, lastOffset}
}

// Terms returns the accumulated term map. Callers (the IndexerQueue merge
// step) must not retain it past the next Reset.
func (fi *ForwardIndex) Terms() map[string]*ForwardEntry {
	return fi.terms
}

// Empty reports whether any token was ever added.
func (fi *ForwardIndex) Empty() bool {
	return len(fi.terms) == 0
}
