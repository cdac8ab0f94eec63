package job

/*
	这个文件声明内核维护的几种固定布局记录，以及把它们解码成稳定结果类型的函数。
	结构体字段的顺序和宽度必须和内核ABI完全一致，不能调整。
	SIZE_T/ULONG_PTR宽度的字段用uintptr表示。
*/

// IOCounters IO计数，对应IO_COUNTERS，按读/写/其他分类
type IOCounters struct {
	ReadOperationCount  uint64
	WriteOperationCount uint64
	OtherOperationCount uint64
	ReadTransferCount   uint64
	WriteTransferCount  uint64
	OtherTransferCount  uint64
}

// 对应JOBOBJECT_BASIC_LIMIT_INFORMATION
type basicLimitInformation struct {
	PerProcessUserTimeLimit int64
	PerJobUserTimeLimit     int64
	LimitFlags              uint32
	MinimumWorkingSetSize   uintptr
	MaximumWorkingSetSize   uintptr
	ActiveProcessLimit      uint32
	Affinity                uintptr
	PriorityClass           uint32
	SchedulingClass         uint32
}

// 对应JOBOBJECT_EXTENDED_LIMIT_INFORMATION
type extendedLimitInformation struct {
	BasicLimitInformation basicLimitInformation
	IoInfo                IOCounters
	ProcessMemoryLimit    uintptr
	JobMemoryLimit        uintptr
	PeakProcessMemoryUsed uintptr
	PeakJobMemoryUsed     uintptr
}

// 对应JOBOBJECT_BASIC_ACCOUNTING_INFORMATION
type basicAccountingInformation struct {
	TotalUserTime             int64
	TotalKernelTime           int64
	ThisPeriodTotalUserTime   int64
	ThisPeriodTotalKernelTime int64
	TotalPageFaultCount       uint32
	TotalProcesses            uint32
	ActiveProcesses           uint32
	TotalTerminatedProcesses  uint32
}

// 对应JOBOBJECT_BASIC_AND_IO_ACCOUNTING_INFORMATION
type basicAndIoAccountingInformation struct {
	BasicInfo basicAccountingInformation
	IoInfo    IOCounters
}

// MaxProcesses 每个Job实例最多登记的进程数，同时也是进程列表记录的固定容量
const MaxProcesses = 100

// 对应JOBOBJECT_BASIC_PROCESS_ID_LIST，固定容量、尾部补0的数组
type processIDList struct {
	NumberOfAssignedProcesses uint32
	NumberOfProcessIDsInList  uint32
	ProcessIDList             [MaxProcesses]uintptr
}

// pids 取出记录里有效的进程号。未使用的槽位是0，过滤掉，顺序保持不变
func (l *processIDList) pids() []uint32 {
	list := make([]uint32, 0, l.NumberOfProcessIDsInList)
	for _, pid := range l.ProcessIDList {
		if pid != 0 {
			list = append(list, uint32(pid))
		}
	}
	return list
}

// AccountInfo job累计资源统计的只读快照
// 时间都是内核原生的100纳秒单位，这里不做任何换算
type AccountInfo struct {
	TotalUserTime             int64
	TotalKernelTime           int64
	ThisPeriodTotalUserTime   int64
	ThisPeriodTotalKernelTime int64
	TotalPageFaultCount       uint32
	TotalProcesses            uint32
	ActiveProcesses           uint32
	TotalTerminatedProcesses  uint32
	ReadOperationCount        uint64
	WriteOperationCount       uint64
	OtherOperationCount       uint64
	ReadTransferCount         uint64
	WriteTransferCount        uint64
	OtherTransferCount        uint64
}

func decodeAccountInfo(r *basicAndIoAccountingInformation) *AccountInfo {
	return &AccountInfo{
		TotalUserTime:             r.BasicInfo.TotalUserTime,
		TotalKernelTime:           r.BasicInfo.TotalKernelTime,
		ThisPeriodTotalUserTime:   r.BasicInfo.ThisPeriodTotalUserTime,
		ThisPeriodTotalKernelTime: r.BasicInfo.ThisPeriodTotalKernelTime,
		TotalPageFaultCount:       r.BasicInfo.TotalPageFaultCount,
		TotalProcesses:            r.BasicInfo.TotalProcesses,
		ActiveProcesses:           r.BasicInfo.ActiveProcesses,
		TotalTerminatedProcesses:  r.BasicInfo.TotalTerminatedProcesses,
		ReadOperationCount:        r.IoInfo.ReadOperationCount,
		WriteOperationCount:       r.IoInfo.WriteOperationCount,
		OtherOperationCount:       r.IoInfo.OtherOperationCount,
		ReadTransferCount:         r.IoInfo.ReadTransferCount,
		WriteTransferCount:        r.IoInfo.WriteTransferCount,
		OtherTransferCount:        r.IoInfo.OtherTransferCount,
	}
}

// LimitInfo 当前生效的限制值，加上IO计数和内存使用峰值
type LimitInfo struct {
	PerProcessUserTimeLimit int64
	PerJobUserTimeLimit     int64
	LimitFlags              uint32
	MinimumWorkingSetSize   uint64
	MaximumWorkingSetSize   uint64
	ActiveProcessLimit      uint32
	Affinity                uint64
	PriorityClass           uint32
	SchedulingClass         uint32
	ReadOperationCount      uint64
	WriteOperationCount     uint64
	OtherOperationCount     uint64
	ReadTransferCount       uint64
	WriteTransferCount      uint64
	OtherTransferCount      uint64
	ProcessMemoryLimit      uint64
	JobMemoryLimit          uint64
	PeakProcessMemoryUsed   uint64
	PeakJobMemoryUsed       uint64
}

func decodeLimitInfo(r *extendedLimitInformation) *LimitInfo {
	return &LimitInfo{
		PerProcessUserTimeLimit: r.BasicLimitInformation.PerProcessUserTimeLimit,
		PerJobUserTimeLimit:     r.BasicLimitInformation.PerJobUserTimeLimit,
		LimitFlags:              r.BasicLimitInformation.LimitFlags,
		MinimumWorkingSetSize:   uint64(r.BasicLimitInformation.MinimumWorkingSetSize),
		MaximumWorkingSetSize:   uint64(r.BasicLimitInformation.MaximumWorkingSetSize),
		ActiveProcessLimit:      r.BasicLimitInformation.ActiveProcessLimit,
		Affinity:                uint64(r.BasicLimitInformation.Affinity),
		PriorityClass:           r.BasicLimitInformation.PriorityClass,
		SchedulingClass:         r.BasicLimitInformation.SchedulingClass,
		ReadOperationCount:      r.IoInfo.ReadOperationCount,
		WriteOperationCount:     r.IoInfo.WriteOperationCount,
		OtherOperationCount:     r.IoInfo.OtherOperationCount,
		ReadTransferCount:       r.IoInfo.ReadTransferCount,
		WriteTransferCount:      r.IoInfo.WriteTransferCount,
		OtherTransferCount:      r.IoInfo.OtherTransferCount,
		ProcessMemoryLimit:      uint64(r.ProcessMemoryLimit),
		JobMemoryLimit:          uint64(r.JobMemoryLimit),
		PeakProcessMemoryUsed:   uint64(r.PeakProcessMemoryUsed),
		PeakJobMemoryUsed:       uint64(r.PeakJobMemoryUsed),
	}
}
