//go:build windows

package job

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// winAPI jobAPI的真实现，全部转给golang.org/x/sys/windows
type winAPI struct{}

func (winAPI) CreateJobObject(name *uint16) (windows.Handle, error) {
	return windows.CreateJobObject(nil, name)
}

func (winAPI) OpenProcess(access uint32, pid uint32) (windows.Handle, error) {
	return windows.OpenProcess(access, false, pid)
}

// IsProcessInJob 第二个参数传0表示查询进程是否属于任意job
func (winAPI) IsProcessInJob(process windows.Handle) (bool, error) {
	var inJob bool
	if err := windows.IsProcessInJob(process, 0, &inJob); err != nil {
		return false, err
	}
	return inJob, nil
}

func (winAPI) AssignProcessToJobObject(job, process windows.Handle) error {
	return windows.AssignProcessToJobObject(job, process)
}

func (winAPI) SetInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error {
	_, err := windows.SetInformationJobObject(job, class, uintptr(info), length)
	return err
}

func (winAPI) QueryInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error {
	var retLen uint32
	return windows.QueryInformationJobObject(job, int32(class), uintptr(info), length, &retLen)
}

func (winAPI) TerminateJobObject(job windows.Handle, exitCode uint32) error {
	return windows.TerminateJobObject(job, exitCode)
}

func (winAPI) CreateIoCompletionPort() (windows.Handle, error) {
	return windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 1)
}

func (winAPI) GetQueuedCompletionStatus(port windows.Handle, code *uint32, key *uintptr, overlapped **windows.Overlapped) error {
	return windows.GetQueuedCompletionStatus(port, code, key, overlapped, windows.INFINITE)
}

func (winAPI) CloseHandle(h windows.Handle) error {
	return windows.CloseHandle(h)
}
