package memscan

import "fmt"

// Pid is a process identifier as assigned by the host OS.
type Pid uint32

// ProcessDescriptor is an immutable snapshot of one running process as
// reported by Discovery.
type ProcessDescriptor struct {
	Pid  Pid
	Name string
}

func (d ProcessDescriptor) String() string {
	return fmt.Sprintf("%s (pid %d)", d.Name, d.Pid)
}

// Protection is the bit-set of access permissions reported for a Page.
type Protection uint8

const (
	ProtRead Protection = 1 << iota
	ProtWrite
	ProtExecute
)

func (p Protection) Readable() bool   { return p&ProtRead != 0 }
func (p Protection) Writable() bool   { return p&ProtWrite != 0 }
func (p Protection) Executable() bool { return p&ProtExecute != 0 }

func (p Protection) String() string {
	r, w, x := "-", "-", "-"
	if p.Readable() {
		r = "r"
	}
	if p.Writable() {
		w = "w"
	}
	if p.Executable() {
		x = "x"
	}
	return r + w + x
}

// State is the bit-set describing a region's commitment/sharing status.
type State uint8

const (
	// StateCommitted means the region is backed by physical storage (or
	// swap) and can be accessed without faulting.
	StateCommitted State = 1 << iota
	// StatePrivate means the region is not shared (copy-on-write or
	// exclusively owned), as opposed to a mapped shared file/module.
	StatePrivate
)

func (s State) Committed() bool { return s&StateCommitted != 0 }
func (s State) Private() bool   { return s&StatePrivate != 0 }

// Page is a contiguous virtual-memory region in the target process, as
// reported by the OS. Regions are recomputed on every QueryPages call; they
// are never assumed stable across scans.
type Page struct {
	Address    uintptr
	Size       uintptr
	Protection Protection
	State      State
}

// End returns the address one past the end of the page.
func (p Page) End() uintptr {
	return p.Address + p.Size
}

func (p Page) String() string {
	return fmt.Sprintf("0x%X-0x%X %s", p.Address, p.End(), p.Protection)
}

// Scannable reports whether p should be admitted to the scannable set under
// the given configuration: committed, private, and readable always; writable
// additionally required unless the configuration opts into read-only pages
// (spec.md §9, Open Question: read-only scanning is a configurable product
// decision, not hard-coded).
func (p Page) Scannable(includeReadOnly bool) bool {
	if !p.State.Committed() || !p.State.Private() {
		return false
	}
	if !p.Protection.Readable() {
		return false
	}
	if !includeReadOnly && !p.Protection.Writable() {
		return false
	}
	return true
}
