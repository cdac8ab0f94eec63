package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessIDListDropsZeroSlots(t *testing.T) {
	var rec processIDList
	rec.NumberOfAssignedProcesses = 3
	rec.NumberOfProcessIDsInList = 3
	rec.ProcessIDList[0] = 111
	// 槽位1留0，模拟内核补0的空位
	rec.ProcessIDList[2] = 222

	assert.Equal(t, []uint32{111, 222}, rec.pids())
}

func TestProcessIDListEmpty(t *testing.T) {
	var rec processIDList
	assert.Empty(t, rec.pids())
}

func TestProcessIDListFullCapacity(t *testing.T) {
	var rec processIDList
	for i := range rec.ProcessIDList {
		rec.ProcessIDList[i] = uintptr(i + 1)
	}
	rec.NumberOfProcessIDsInList = MaxProcesses

	pids := rec.pids()
	assert.Len(t, pids, MaxProcesses)
	assert.Equal(t, uint32(1), pids[0])
	assert.Equal(t, uint32(MaxProcesses), pids[MaxProcesses-1])
}

func TestDecodeAccountInfoVerbatim(t *testing.T) {
	rec := &basicAndIoAccountingInformation{
		BasicInfo: basicAccountingInformation{
			TotalUserTime:             123456789,
			TotalKernelTime:           987654321,
			ThisPeriodTotalUserTime:   1111,
			ThisPeriodTotalKernelTime: 2222,
			TotalPageFaultCount:       42,
			TotalProcesses:            7,
			ActiveProcesses:           3,
			TotalTerminatedProcesses:  1,
		},
		IoInfo: IOCounters{
			ReadOperationCount:  10,
			WriteOperationCount: 20,
			OtherOperationCount: 30,
			ReadTransferCount:   100,
			WriteTransferCount:  200,
			OtherTransferCount:  300,
		},
	}

	got := decodeAccountInfo(rec)

	// 逐字段原样透传，时间保持100纳秒单位不换算
	want := &AccountInfo{
		TotalUserTime:             123456789,
		TotalKernelTime:           987654321,
		ThisPeriodTotalUserTime:   1111,
		ThisPeriodTotalKernelTime: 2222,
		TotalPageFaultCount:       42,
		TotalProcesses:            7,
		ActiveProcesses:           3,
		TotalTerminatedProcesses:  1,
		ReadOperationCount:        10,
		WriteOperationCount:       20,
		OtherOperationCount:       30,
		ReadTransferCount:         100,
		WriteTransferCount:        200,
		OtherTransferCount:        300,
	}
	assert.Equal(t, want, got)
}

func TestDecodeLimitInfoVerbatim(t *testing.T) {
	rec := &extendedLimitInformation{
		BasicLimitInformation: basicLimitInformation{
			PerProcessUserTimeLimit: 5_000_000,
			PerJobUserTimeLimit:     10_000_000,
			LimitFlags:              LimitJobTime | LimitProcessTime | LimitPriorityClass,
			MinimumWorkingSetSize:   1 << 20,
			MaximumWorkingSetSize:   8 << 20,
			ActiveProcessLimit:      16,
			Affinity:                0b1010,
			PriorityClass:           HighPriorityClass,
			SchedulingClass:         5,
		},
		IoInfo: IOCounters{
			ReadOperationCount: 1,
			ReadTransferCount:  4096,
		},
		ProcessMemoryLimit:    32 << 20,
		JobMemoryLimit:        64 << 20,
		PeakProcessMemoryUsed: 12 << 20,
		PeakJobMemoryUsed:     48 << 20,
	}

	got := decodeLimitInfo(rec)

	assert.Equal(t, int64(5_000_000), got.PerProcessUserTimeLimit)
	assert.Equal(t, int64(10_000_000), got.PerJobUserTimeLimit)
	assert.Equal(t, LimitJobTime|LimitProcessTime|LimitPriorityClass, got.LimitFlags)
	assert.Equal(t, uint64(1<<20), got.MinimumWorkingSetSize)
	assert.Equal(t, uint64(8<<20), got.MaximumWorkingSetSize)
	assert.Equal(t, uint32(16), got.ActiveProcessLimit)
	assert.Equal(t, uint64(0b1010), got.Affinity)
	assert.Equal(t, HighPriorityClass, got.PriorityClass)
	assert.Equal(t, uint32(5), got.SchedulingClass)
	assert.Equal(t, uint64(1), got.ReadOperationCount)
	assert.Equal(t, uint64(4096), got.ReadTransferCount)
	assert.Equal(t, uint64(32<<20), got.ProcessMemoryLimit)
	assert.Equal(t, uint64(64<<20), got.JobMemoryLimit)
	assert.Equal(t, uint64(12<<20), got.PeakProcessMemoryUsed)
	assert.Equal(t, uint64(48<<20), got.PeakJobMemoryUsed)
}
