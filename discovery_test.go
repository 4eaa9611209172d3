package memscan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPIDByNameEmptyPrefixNeverMatches(t *testing.T) {
	_, ok := FindPIDByName("")
	assert.False(t, ok)
}

func TestEnumerateProcessesFirstDescriptorHasName(t *testing.T) {
	// Our own process is always running, so EnumerateProcesses must return at
	// least one descriptor when the host supports process listing at all.
	procs := EnumerateProcesses()
	if len(procs) == 0 {
		t.Skip("process enumeration unavailable in this environment")
	}
	assert.NotEmpty(t, procs[0].Name)
}

func TestFindPIDByNameIsCaseInsensitivePrefix(t *testing.T) {
	procs := EnumerateProcesses()
	if len(procs) == 0 {
		t.Skip("process enumeration unavailable in this environment")
	}

	want := procs[0]
	prefix := want.Name
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	prefix = strings.ToUpper(prefix)

	pid, ok := FindPIDByName(prefix)
	require := assert.New(t)
	require.True(ok)
	require.NotZero(pid)
}
