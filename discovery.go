package memscan

import (
	"strings"

	gopsprocess "github.com/shirou/gopsutil/v4/process"
)

// EnumerateProcesses returns a snapshot of currently running processes with
// PID and short executable name (spec.md §4.1). Listing failures return an
// empty slice rather than an error; a single process's name resolution
// failure produces a placeholder name instead of dropping the process or
// aborting the whole enumeration.
//
// Portability note: the teacher's own enumeration
// (a CreateToolhelp32Snapshot/Process32First/Next walk, not carried into
// this module) is Windows-only. Per spec.md §2, only the
// Platform Memory Access layer is meant to be host-specific — everything
// above it, including process discovery, should be portable. gopsutil's
// process.Processes() gives that portability for free.
func EnumerateProcesses() []ProcessDescriptor {
	procs, err := gopsprocess.Processes()
	if err != nil {
		log.WithError(err).Debug("memscan: enumerate processes failed")
		return nil
	}

	out := make([]ProcessDescriptor, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			name = "<unknown>"
		}
		out = append(out, ProcessDescriptor{Pid: Pid(p.Pid), Name: name})
	}
	return out
}

// FindPIDByName enumerates processes and returns the PID of the first
// descriptor whose executable name begins with prefix, case-insensitively
// (spec.md §4.5), anchored exactly like original_source's
// GetPidFromProcessName ("^{prefix}.*"): a true prefix match, not a
// substring search. Ties break on first-in-enumeration-order. An empty
// prefix always returns false, defensively, since it would match everything.
func FindPIDByName(prefix string) (Pid, bool) {
	if prefix == "" {
		return 0, false
	}
	lowerPrefix := strings.ToLower(prefix)
	for _, desc := range EnumerateProcesses() {
		if strings.HasPrefix(strings.ToLower(desc.Name), lowerPrefix) {
			return desc.Pid, true
		}
	}
	return 0, false
}
