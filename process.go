package memscan

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MemoryAccessor is the portable surface a Scan narrows against (spec.md
// §4.4's "shared Process"). Accepting this interface rather than a concrete
// *Process is what lets the Scan Engine's tests in scan_test.go drive an
// in-memory fake target deterministically, without an OS process at all.
type MemoryAccessor interface {
	QueryPages() ([]Page, error)
	ReadPage(page Page) ([]byte, bool)
	ReadInto(address uintptr, buf []byte) error
	Write(address uintptr, data []byte) error
	Pid() Pid
}

// ProcessConfig resolves spec.md §9's open question of whether read-only
// pages should be scannable in addition to read-write ones.
type ProcessConfig struct {
	// IncludeReadOnly admits committed, private, read-only pages to the
	// scannable set in addition to read-write ones. Off by default, matching
	// spec.md §4.1's literal filter (committed ∧ private ∧ read-write).
	IncludeReadOnly bool
}

// Process is the portable facade over a platformHandle (spec.md §4.2). It
// owns the handle exclusively: Close() releases it, and a Process must not
// be copied (copy the pointer, not the value — this mirrors the teacher's
// own non-copyable Scanner, which owns a raw windows.Handle the same way).
type Process struct {
	pid    Pid
	cfg    ProcessConfig
	handle platformHandle
	pages  []Page // last-queried cache, per spec.md §3
}

var _ MemoryAccessor = (*Process)(nil)

// NewProcess opens pid for query+read+write access, per spec.md §4.2's
// new(pid) constructor. It fails exactly as spec.md §4.1/§7 specify:
// ErrProcessNotFound, ErrAccessDenied, or ErrOpenOther wrapped with context.
func NewProcess(pid Pid, cfg ProcessConfig) (*Process, error) {
	h, err := openPlatformProcess(pid)
	if err != nil {
		return nil, err
	}
	return &Process{pid: pid, cfg: cfg, handle: h}, nil
}

// Close releases the underlying OS handle. Safe to call more than once.
func (p *Process) Close() error {
	if p.handle == nil {
		return nil
	}
	err := p.handle.close()
	p.handle = nil
	return err
}

// Pid returns the process ID this facade is attached to.
func (p *Process) Pid() Pid {
	return p.pid
}

// QueryPages (re)queries the target's virtual memory regions, filters to the
// scannable subset per p.cfg, caches, and returns the cached slice.
func (p *Process) QueryPages() ([]Page, error) {
	all, err := p.handle.queryRegions()
	if err != nil {
		log.WithError(err).WithField("pid", p.pid).Debug("memscan: query pages failed")
		return nil, err
	}

	scannable := make([]Page, 0, len(all))
	for _, page := range all {
		if page.Scannable(p.cfg.IncludeReadOnly) {
			scannable = append(scannable, page)
		}
	}
	p.pages = scannable
	return p.pages, nil
}

// ReadPage allocates a buffer sized to page, issues one read, and truncates
// to the actual bytes transferred. It returns (nil, false) when zero bytes
// were read — a transient unreadable page, not an error (spec.md §4.2).
func (p *Process) ReadPage(page Page) ([]byte, bool) {
	buf := make([]byte, page.Size)
	n, err := p.handle.readAt(page.Address, buf)
	if err != nil || n == 0 {
		return nil, false
	}
	return buf[:n], true
}

// ReadInto reads exactly len(buf) bytes at address or fails with
// ErrUnreadable (zero bytes transferred) or ErrShortRead (partial).
func (p *Process) ReadInto(address uintptr, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := p.handle.readAt(address, buf)
	if err != nil {
		return fmt.Errorf("memscan: read pid %d at 0x%X: %w: %v", p.pid, address, ErrUnreadable, err)
	}
	if n == 0 {
		return fmt.Errorf("memscan: read pid %d at 0x%X: %w", p.pid, address, ErrUnreadable)
	}
	if n != len(buf) {
		return fmt.Errorf("memscan: read pid %d at 0x%X: %w", p.pid, address, ErrShortRead)
	}
	return nil
}

// Write forwards to the platform handle's all-or-nothing write.
func (p *Process) Write(address uintptr, data []byte) error {
	return p.handle.writeAt(address, data)
}

// ReadTyped reads sizeof(T) little-endian bytes at address and bit-for-bit
// recovers them as T via encoding/binary.Read — a value recovery, never an
// aliasing pointer cast (spec.md §9's explicit design note), generalizing
// original_source/.../process.h's template Read<T>. T must be a fixed-size
// type binary.Read accepts (the scalar widths Value.Kind covers, or a
// fixed-layout struct of them).
func ReadTyped[T any](p *Process, address uintptr) (T, bool) {
	var out T
	size := binary.Size(out)
	if size <= 0 {
		return out, false
	}
	buf := make([]byte, size)
	if err := p.ReadInto(address, buf); err != nil {
		return out, false
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}
