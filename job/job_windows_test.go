//go:build windows

package job

import (
	"errors"
	"syscall"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sys/windows"
)

const fakeJobHandle windows.Handle = 0x1234

// fakeAPI 记录每个内核调用的桩实现
type fakeAPI struct {
	openCalls      int
	inJobCalls     int
	assignCalls    int
	setCalls       int
	queryCalls     int
	terminateCalls int
	closeCalls     int

	openErr      error
	inJobErr     error
	assignErr    error
	setErr       error
	queryErr     error
	terminateErr error

	inJobResult bool
	kernelPids  []uint32 // ProcessList查询返回的进程号

	lastSetClass uint32
	lastFlags    uint32
}

func (f *fakeAPI) CreateJobObject(name *uint16) (windows.Handle, error) {
	return fakeJobHandle, nil
}

func (f *fakeAPI) OpenProcess(access uint32, pid uint32) (windows.Handle, error) {
	f.openCalls++
	if f.openErr != nil {
		return 0, f.openErr
	}
	return windows.Handle(uintptr(pid) + 0x1000), nil
}

func (f *fakeAPI) IsProcessInJob(process windows.Handle) (bool, error) {
	f.inJobCalls++
	return f.inJobResult, f.inJobErr
}

func (f *fakeAPI) AssignProcessToJobObject(job, process windows.Handle) error {
	f.assignCalls++
	return f.assignErr
}

func (f *fakeAPI) SetInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error {
	f.setCalls++
	f.lastSetClass = class
	if class == jobObjectExtendedLimitInformation {
		rec := (*extendedLimitInformation)(info)
		f.lastFlags = rec.BasicLimitInformation.LimitFlags
	}
	return f.setErr
}

func (f *fakeAPI) QueryInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error {
	f.queryCalls++
	if f.queryErr != nil {
		return f.queryErr
	}
	if class == jobObjectBasicProcessIDList {
		rec := (*processIDList)(info)
		rec.NumberOfAssignedProcesses = uint32(len(f.kernelPids))
		rec.NumberOfProcessIDsInList = uint32(len(f.kernelPids))
		for i, pid := range f.kernelPids {
			rec.ProcessIDList[i] = uintptr(pid)
		}
	}
	return nil
}

func (f *fakeAPI) TerminateJobObject(job windows.Handle, exitCode uint32) error {
	f.terminateCalls++
	return f.terminateErr
}

func (f *fakeAPI) CreateIoCompletionPort() (windows.Handle, error) {
	return windows.Handle(0x5678), nil
}

func (f *fakeAPI) GetQueuedCompletionStatus(port windows.Handle, code *uint32, key *uintptr, overlapped **windows.Overlapped) error {
	*code = jobObjectMsgActiveProcessZero
	return nil
}

func (f *fakeAPI) CloseHandle(h windows.Handle) error {
	f.closeCalls++
	return nil
}

func newTestJob(t *testing.T, f *fakeAPI) *Job {
	t.Helper()
	j, err := create("test", f)
	require.NoError(t, err)
	return j
}

func TestCloseTwiceReleasesHandleOnce(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)

	j.Close()
	j.Close()

	assert.Equal(t, 1, f.closeCalls)
}

func TestAddProcessSuccessAppendsRoster(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	require.NoError(t, j.AddProcess(123))

	assert.Equal(t, []uint32{123}, j.Processes())
	assert.Equal(t, 1, f.assignCalls)
	// 进程句柄用完即关
	assert.Equal(t, 1, f.closeCalls)
}

func TestAddProcessAlreadyInJob(t *testing.T) {
	f := &fakeAPI{inJobResult: true}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.AddProcess(123)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAlreadyAssigned))
	// 没走到分配那一步，登记也不变
	assert.Equal(t, 0, f.assignCalls)
	assert.Empty(t, j.Processes())
}

func TestAddProcessCapacity(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	for i := 0; i < MaxProcesses; i++ {
		require.NoError(t, j.AddProcess(uint32(i+1)))
	}
	f.openCalls = 0

	err := j.AddProcess(9999)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindListCapacity))
	// 容量校验在本地完成，不发内核调用，登记保持100条
	assert.Equal(t, 0, f.openCalls)
	assert.Len(t, j.Processes(), MaxProcesses)
}

func TestAddProcessDuplicatePid(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	require.NoError(t, j.AddProcess(123))
	f.openCalls = 0

	err := j.AddProcess(123)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAlreadyAssigned))
	assert.Equal(t, 0, f.openCalls)
	assert.Equal(t, []uint32{123}, j.Processes())
}

func TestAddProcessOpenFailureCarriesErrno(t *testing.T) {
	f := &fakeAPI{openErr: syscall.Errno(5)}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.AddProcess(123)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProcessOpen))

	var je *Error
	require.True(t, errors.As(err, &je))
	assert.Equal(t, syscall.Errno(5), je.Errno)
	assert.Equal(t, "OpenProcess", je.Call)
}

func TestAddProcessAssignmentFailure(t *testing.T) {
	f := &fakeAPI{assignErr: syscall.Errno(87)}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.AddProcess(123)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAssignment))
	assert.Empty(t, j.Processes())
}

func TestConfigureLimitsValidationSkipsKernel(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.ConfigureLimits(&LimitOptions{PreserveJobTime: true, JobTime: i64(1)})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration))
	assert.Equal(t, 0, f.setCalls)

	err = j.ConfigureLimits(nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration))
	assert.Equal(t, 0, f.setCalls)
}

func TestConfigureLimitsSubmitsExtendedRecord(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	require.NoError(t, j.ConfigureLimits(&LimitOptions{
		KillOnJobClose: true,
		JobMemory:      u64(64 << 20),
	}))

	assert.Equal(t, 1, f.setCalls)
	assert.Equal(t, jobObjectExtendedLimitInformation, f.lastSetClass)
	assert.Equal(t, LimitKillOnJobClose|LimitJobMemory, f.lastFlags)
}

func TestConfigureLimitsKernelFailure(t *testing.T) {
	f := &fakeAPI{setErr: syscall.Errno(87)}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.ConfigureLimits(&LimitOptions{KillOnJobClose: true})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLimitSet))

	var je *Error
	require.True(t, errors.As(err, &je))
	assert.Equal(t, syscall.Errno(87), je.Errno)
}

func TestProcessListFreshJobIsEmpty(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	defer j.Close()

	pids, err := j.ProcessList()
	require.NoError(t, err)
	assert.Empty(t, pids)
	assert.Equal(t, 1, f.queryCalls)
}

func TestProcessListReturnsKernelRoster(t *testing.T) {
	f := &fakeAPI{kernelPids: []uint32{111, 222}}
	j := newTestJob(t, f)
	defer j.Close()

	pids, err := j.ProcessList()
	require.NoError(t, err)
	assert.Equal(t, []uint32{111, 222}, pids)
}

func TestQueryFailureCarriesErrno(t *testing.T) {
	f := &fakeAPI{queryErr: syscall.Errno(6)}
	j := newTestJob(t, f)
	defer j.Close()

	_, err := j.AccountInfo()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindQuery))

	var je *Error
	require.True(t, errors.As(err, &je))
	assert.Equal(t, syscall.Errno(6), je.Errno)
}

func TestKillFailure(t *testing.T) {
	f := &fakeAPI{terminateErr: syscall.Errno(5)}
	j := newTestJob(t, f)
	defer j.Close()

	err := j.Kill()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTermination))
	assert.Equal(t, 1, f.terminateCalls)
}

func TestOperationsAfterCloseAreRejected(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)
	j.Close()

	assert.Error(t, j.AddProcess(1))
	assert.Error(t, j.ConfigureLimits(&LimitOptions{}))
	_, err := j.ProcessList()
	assert.Error(t, err)
	assert.Error(t, j.Kill())
	assert.Error(t, j.Wait())
}

func TestWaitDrainsUntilActiveProcessZero(t *testing.T) {
	f := &fakeAPI{}
	j := newTestJob(t, f)

	require.NoError(t, j.Wait())
	// 关联完成端口走的是SetInformationJobObject
	assert.Equal(t, jobObjectAssociateCompletionPortInformation, f.lastSetClass)

	// Close要把job句柄和完成端口都收回
	j.Close()
	assert.Equal(t, 2, f.closeCalls)
}
