//go:build windows

package memscan

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsHandle is the Windows implementation of platformHandle, grounded
// directly on the teacher's Scanner (OpenProcess/VirtualQueryEx/
// ReadProcessMemory) extended with WriteProcessMemory, which the teacher's
// read-only wechat search tool never needed but spec.md §4.2 requires.
type windowsHandle struct {
	pid    Pid
	handle windows.Handle
}

func openPlatformProcessImpl(pid Pid) (platformHandle, error) {
	h, err := windows.OpenProcess(
		windows.PROCESS_VM_READ|windows.PROCESS_VM_WRITE|windows.PROCESS_VM_OPERATION|
			windows.PROCESS_QUERY_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		switch err {
		case windows.ERROR_ACCESS_DENIED:
			return nil, fmt.Errorf("memscan: open pid %d: %w", pid, ErrAccessDenied)
		case windows.ERROR_INVALID_PARAMETER:
			return nil, fmt.Errorf("memscan: open pid %d: %w", pid, ErrProcessNotFound)
		default:
			return nil, fmt.Errorf("memscan: open pid %d: %w: %v", pid, ErrOpenOther, err)
		}
	}
	return &windowsHandle{pid: pid, handle: h}, nil
}

func (h *windowsHandle) close() error {
	if h.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(h.handle)
	h.handle = 0
	return err
}

// queryRegions walks the target's address space from 0 upward with
// VirtualQueryEx, stepping over each reported region's size until the probe
// fails at the end of the address space — the teacher's Scan loop, minus
// pattern searching (that moved up into the portable Scan Engine).
func (h *windowsHandle) queryRegions() ([]Page, error) {
	var pages []Page
	var mbi windows.MemoryBasicInformation
	var address uintptr

	for {
		err := windows.VirtualQueryEx(h.handle, address, &mbi, unsafe.Sizeof(mbi))
		if err != nil {
			break
		}

		pages = append(pages, Page{
			Address:    mbi.BaseAddress,
			Size:       mbi.RegionSize,
			Protection: windowsProtection(mbi.Protect),
			State:      windowsState(mbi.State, mbi.Type),
		})

		next := mbi.BaseAddress + mbi.RegionSize
		if next <= address {
			break // region size reported as 0 (or overflow); avoid looping forever
		}
		address = next
	}

	return pages, nil
}

func windowsProtection(protect uint32) Protection {
	var p Protection
	switch protect &^ (windows.PAGE_GUARD | windows.PAGE_NOCACHE | windows.PAGE_WRITECOMBINE) {
	case windows.PAGE_READONLY:
		p = ProtRead
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		p = ProtRead | ProtWrite
	case windows.PAGE_EXECUTE:
		p = ProtExecute
	case windows.PAGE_EXECUTE_READ:
		p = ProtRead | ProtExecute
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		p = ProtRead | ProtWrite | ProtExecute
	}
	return p
}

func windowsState(state, memType uint32) State {
	var s State
	if state == windows.MEM_COMMIT {
		s |= StateCommitted
	}
	if memType == windows.MEM_PRIVATE {
		s |= StatePrivate
	}
	return s
}

func (h *windowsHandle) readAt(address uintptr, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.ReadProcessMemory(h.handle, address, &buf[0], uintptr(len(buf)), &n)
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

func (h *windowsHandle) writeAt(address uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var n uintptr
	err := windows.WriteProcessMemory(h.handle, address, &data[0], uintptr(len(data)), &n)
	if err != nil {
		return fmt.Errorf("memscan: write pid %d at 0x%X: %w: %v", h.pid, address, ErrUnwritable, err)
	}
	if int(n) != len(data) {
		return fmt.Errorf("memscan: write pid %d at 0x%X: %w", h.pid, address, ErrShortWrite)
	}
	return nil
}
