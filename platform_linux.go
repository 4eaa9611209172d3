//go:build linux

package memscan

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// linuxHandle is the Linux implementation of platformHandle: regions come
// from /proc/<pid>/maps (grounded on
// other_examples/c8a0d10d_kornnellio-gosv__proc.go.go's readMaps), and reads
// and writes go through a single /proc/<pid>/mem file descriptor opened once
// and accessed by offset (grounded on
// other_examples/171caa13_e2b-dev-infra__..._process_reader.go.go's
// ProcessMemoryReader).
type linuxHandle struct {
	pid Pid
	mem *os.File
}

func openPlatformProcessImpl(pid Pid) (platformHandle, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("memscan: open pid %d: %w", pid, ErrProcessNotFound)
		}
		return nil, fmt.Errorf("memscan: open pid %d: %w: %v", pid, ErrOpenOther, err)
	}

	mem, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("memscan: open pid %d: %w", pid, ErrAccessDenied)
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("memscan: open pid %d: %w", pid, ErrProcessNotFound)
		}
		return nil, fmt.Errorf("memscan: open pid %d: %w: %v", pid, ErrOpenOther, err)
	}

	return &linuxHandle{pid: pid, mem: mem}, nil
}

func (h *linuxHandle) close() error {
	if h.mem == nil {
		return nil
	}
	err := h.mem.Close()
	h.mem = nil
	return err
}

// queryRegions parses /proc/<pid>/maps, one line per region:
//
//	<start>-<end> <perms> <offset> <dev> <inode> [pathname]
//
// A region is "private" in spec.md's sense when its perms field carries 'p'
// and it has no backing pathname (or is one of the anonymous pseudo-mappings
// like [heap]/[stack]); file-backed mappings are shared/module memory and
// are left out of the scannable set by Page.Scannable regardless, since they
// fail the Private() check here.
func (h *linuxHandle) queryRegions() ([]Page, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", h.pid))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("memscan: query pid %d: %w", h.pid, ErrProcessNotFound)
		}
		return nil, fmt.Errorf("memscan: query pid %d: %w: %v", h.pid, ErrOpenOther, err)
	}
	defer f.Close()

	var pages []Page
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		page, ok := parseMapsLine(scanner.Text())
		if ok {
			pages = append(pages, page)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("memscan: query pid %d: %w: %v", h.pid, ErrOpenOther, err)
	}
	return pages, nil
}

func parseMapsLine(line string) (Page, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Page{}, false
	}

	addrRange := strings.SplitN(fields[0], "-", 2)
	if len(addrRange) != 2 {
		return Page{}, false
	}
	start, err := strconv.ParseUint(addrRange[0], 16, 64)
	if err != nil {
		return Page{}, false
	}
	end, err := strconv.ParseUint(addrRange[1], 16, 64)
	if err != nil || end < start {
		return Page{}, false
	}

	perms := fields[1]
	var prot Protection
	if strings.Contains(perms, "r") {
		prot |= ProtRead
	}
	if strings.Contains(perms, "w") {
		prot |= ProtWrite
	}
	if strings.Contains(perms, "x") {
		prot |= ProtExecute
	}

	state := StateCommitted
	hasPath := len(fields) >= 6
	isAnonPseudo := hasPath && strings.HasPrefix(fields[5], "[")
	if strings.Contains(perms, "p") && (!hasPath || isAnonPseudo) {
		state |= StatePrivate
	}

	return Page{
		Address:    uintptr(start),
		Size:       uintptr(end - start),
		Protection: prot,
		State:      state,
	}, true
}

func (h *linuxHandle) readAt(address uintptr, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n, err := h.mem.ReadAt(buf, int64(address))
	if err != nil && n == 0 {
		return 0, nil
	}
	return n, nil
}

func (h *linuxHandle) writeAt(address uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := h.mem.WriteAt(data, int64(address))
	if err != nil {
		if errors.Is(err, unix.ESRCH) || errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("memscan: write pid %d at 0x%X: %w: %v", h.pid, address, ErrUnwritable, err)
		}
		return fmt.Errorf("memscan: write pid %d at 0x%X: %w: %v", h.pid, address, ErrShortWrite, err)
	}
	if n != len(data) {
		return fmt.Errorf("memscan: write pid %d at 0x%X: %w", h.pid, address, ErrShortWrite)
	}
	return nil
}
