package memscan

import (
	"context"
	"fmt"
)

// MatchRecord is one candidate in a Scan's generation: the address of a
// candidate in the target plus a snapshot of the bytes last read at that
// address with the scan's current width (spec.md §3).
type MatchRecord struct {
	Address uintptr
	Bytes   []byte
}

// Scan is the stateful centerpiece (spec.md §4.4): it holds the current
// candidate set and one prior generation, and narrows the candidate set via
// Find (initial scan) and the Filter*/Refresh operations. A Scan is
// single-threaded/cooperative (spec.md §5): callers must serialize access
// themselves if shared across goroutines.
type Scan struct {
	process  MemoryAccessor
	kind     ValueKind
	kindSet  bool
	width    int
	current  []MatchRecord
	previous []MatchRecord
}

// NewScan creates a scan bound to process, in the Empty state (spec.md §4.4
// state machine).
func NewScan(process MemoryAccessor) *Scan {
	return &Scan{process: process}
}

// Records returns the scan's current candidate set, sorted by address with
// no duplicates (spec.md §3 invariant (a)).
func (s *Scan) Records() []MatchRecord {
	return s.current
}

// Previous returns the generation immediately preceding Records(). It is
// empty before the first Find and still empty right after it, since that
// Find pushes the empty initial generation.
func (s *Scan) Previous() []MatchRecord {
	return s.previous
}

// Width returns the byte width shared by every record in the current
// generation.
func (s *Scan) Width() int {
	return s.width
}

// pushGeneration performs the atomic previous<-current swap-and-clear that
// every narrowing operation begins with (spec.md §9: "a simple in-place swap
// is sufficient"; grounded on
// original_source/src/maiascan/scanner/scan.h's PushScan).
func (s *Scan) pushGeneration() {
	s.previous, s.current = s.current, s.previous
	s.current = s.current[:0]
}

// Find performs an initial scan: previous<-current, then every scannable
// page in the target is read and searched for needle at the scan's
// alignment, emitting one MatchRecord per offset in page-then-offset order
// (spec.md §4.4, Testable Property 3). Pages that fail to read are skipped
// silently and simply produce zero matches — a transient unreadable page
// must not abort the scan (spec.md §4.4).
func (s *Scan) Find(needle []byte) ([]MatchRecord, error) {
	return s.FindWithContext(context.Background(), needle)
}

// FindValue is a typed convenience over Find, encoding v via the Core Value
// Model first. It also configures the scan's scalar kind (spec.md §4.4:
// "currently configured scalar width/sign/float kind"), which FilterIncreased
// and FilterDecreased reuse so callers needn't repeat it on every narrowing
// call.
func (s *Scan) FindValue(kind ValueKind, v any) ([]MatchRecord, error) {
	val, err := ToBytes(kind, v)
	if err != nil {
		return nil, err
	}
	s.kind = kind
	s.kindSet = true
	return s.Find(val.Bytes())
}

// Refresh re-reads bytes at every current address, mutating records in
// place. Records with failing reads are dropped. previous is not touched
// (spec.md §4.4).
func (s *Scan) Refresh() []MatchRecord {
	fresh := s.current[:0:0]
	for _, rec := range s.current {
		buf := make([]byte, s.width)
		if err := s.process.ReadInto(rec.Address, buf); err != nil {
			continue
		}
		fresh = append(fresh, MatchRecord{Address: rec.Address, Bytes: buf})
	}
	s.current = fresh
	return s.current
}

// FilterEquals narrows against a new constant: for each current record,
// re-read width bytes at its address and retain iff they equal value. The
// retained records carry the freshly read bytes, so Previous() reflects
// pre-filter values and Records() reflects post-filter values (spec.md
// §4.4).
func (s *Scan) FilterEquals(value []byte) ([]MatchRecord, error) {
	if len(value) != s.width {
		return nil, fmt.Errorf("memscan: FilterEquals: %w: width %d, value %d", ErrWidthMismatch, s.width, len(value))
	}
	s.pushGeneration()

	var kept []MatchRecord
	for _, rec := range s.previous {
		buf := make([]byte, s.width)
		if err := s.process.ReadInto(rec.Address, buf); err != nil {
			continue
		}
		if bytesEqual(buf, value) {
			kept = append(kept, MatchRecord{Address: rec.Address, Bytes: buf})
		}
	}
	s.current = kept
	return s.current, nil
}

// FilterEqualsValue is a typed convenience over FilterEquals (supplemented
// from original_source's RemoveDifferent<T>, per SPEC_FULL.md). It also
// (re)configures the scan's scalar kind, same as FindValue.
func (s *Scan) FilterEqualsValue(kind ValueKind, v any) ([]MatchRecord, error) {
	val, err := ToBytes(kind, v)
	if err != nil {
		return nil, err
	}
	s.kind = kind
	s.kindSet = true
	return s.FilterEquals(val.Bytes())
}

// filterByComparison is the shared body of FilterChanged/FilterUnchanged/
// FilterIncreased/FilterDecreased: for each address in current, compare its
// previous bytes against a freshly read value via keep, dropping records on
// read failure.
//
// Per spec.md §4.4's "pre-filter previous<-current swap is atomic" rule,
// every comparison filter pushes the generation first: the addresses and
// bytes being tested come from the pre-push current (now previous), and
// each record's own Bytes field supplies the "previous value" half of the
// comparison — there is no separate older generation to consult, since the
// whole point of a single previous/current pair (spec.md §9) is that each
// narrowing step only ever looks one generation back.
func (s *Scan) filterByComparison(keep func(prevBytes, freshBytes []byte) bool) ([]MatchRecord, error) {
	if len(s.current) == 0 {
		return nil, fmt.Errorf("memscan: filter: %w", ErrNotPopulated)
	}

	s.pushGeneration()

	var kept []MatchRecord
	for _, rec := range s.previous {
		fresh := make([]byte, s.width)
		if err := s.process.ReadInto(rec.Address, fresh); err != nil {
			continue
		}
		if keep(rec.Bytes, fresh) {
			kept = append(kept, MatchRecord{Address: rec.Address, Bytes: fresh})
		}
	}
	s.current = kept
	return s.current, nil
}

// FilterChanged retains candidates whose bytes differ from the previous
// generation's observation at the same address.
func (s *Scan) FilterChanged() ([]MatchRecord, error) {
	return s.filterByComparison(func(prev, fresh []byte) bool {
		return !bytesEqual(prev, fresh)
	})
}

// FilterUnchanged retains candidates whose bytes are identical to the
// previous generation's observation at the same address.
func (s *Scan) FilterUnchanged() ([]MatchRecord, error) {
	return s.filterByComparison(func(prev, fresh []byte) bool {
		return bytesEqual(prev, fresh)
	})
}

// FilterIncreased retains candidates whose freshly read value is strictly
// greater than their previous value, interpreted under the scan's currently
// configured scalar kind (spec.md §4.4). NaN operands always drop the
// record. The kind comes from the most recent FindValue or FilterEqualsValue
// call; it returns ErrKindNotConfigured if neither has ever been called.
func (s *Scan) FilterIncreased() ([]MatchRecord, error) {
	return s.filterOrdered(OrderGreater)
}

// FilterDecreased retains candidates whose freshly read value is strictly
// less than their previous value, interpreted under the scan's currently
// configured scalar kind (spec.md §4.4). NaN operands always drop the
// record. The kind comes from the most recent FindValue or FilterEqualsValue
// call; it returns ErrKindNotConfigured if neither has ever been called.
func (s *Scan) FilterDecreased() ([]MatchRecord, error) {
	return s.filterOrdered(OrderLess)
}

func (s *Scan) filterOrdered(want Ordering) ([]MatchRecord, error) {
	if !s.kindSet {
		return nil, fmt.Errorf("memscan: filter: %w", ErrKindNotConfigured)
	}
	kind := s.kind
	return s.filterByComparison(func(prev, fresh []byte) bool {
		ord, err := Compare(kind, fresh, prev)
		if err != nil {
			return false
		}
		return ord == want
	})
}

// WriteAt is a convenience forward to the bound process's Write, for
// applying a replacement value to an isolated candidate address (spec.md
// §4.4).
func (s *Scan) WriteAt(address uintptr, data []byte) error {
	return s.process.Write(address, data)
}

// FindWithContext is Find with cooperative cancellation at page boundaries
// (spec.md §5): on cancellation, whatever has been accumulated so far is
// kept as current (no torn state — previous stays as captured at the start).
func (s *Scan) FindWithContext(ctx context.Context, needle []byte) ([]MatchRecord, error) {
	if len(needle) == 0 {
		return nil, fmt.Errorf("memscan: Find: %w: empty needle", ErrWidthMismatch)
	}

	s.pushGeneration()
	s.width = len(needle)

	pages, err := s.process.QueryPages()
	if err != nil {
		log.WithError(err).WithField("pid", s.process.Pid()).Debug("memscan: Find: query pages failed")
		return s.current, nil
	}

	alignment := DefaultAlignment(len(needle))
	var records []MatchRecord
	for _, page := range pages {
		select {
		case <-ctx.Done():
			s.current = records
			return s.current, nil
		default:
		}

		data, ok := s.process.ReadPage(page)
		if !ok {
			continue
		}
		for _, offset := range SearchOffsets(data, needle, alignment) {
			snapshot := make([]byte, len(needle))
			copy(snapshot, needle)
			records = append(records, MatchRecord{
				Address: page.Address + uintptr(offset),
				Bytes:   snapshot,
			})
		}
	}

	s.current = records
	return s.current, nil
}
