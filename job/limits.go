package job

// LimitOptions 资源限制配置。字段都是可选的：指针为nil或布尔为false表示不启用。
// 只有被设置的选项会体现在提交给内核的限制记录里，同一份输入生成的记录是确定的。
// 时间限制的单位是内核原生的100纳秒
type LimitOptions struct {
	ActiveProcess           *uint32 // 活动进程数上限
	Affinity                *uint64 // 处理器亲和掩码
	BreakawayOK             bool    // 允许子进程脱离job
	DieOnUnhandledException bool    // 未处理异常时直接结束进程，不弹窗
	JobMemory               *uint64 // job整体的内存上限，字节
	JobTime                 *int64  // job的用户态CPU时间上限
	KillOnJobClose          bool    // 最后一个句柄关闭时杀掉job内所有进程
	MaximumWorkingSet       *uint64 // 工作集上界，字节
	MinimumWorkingSet       *uint64 // 工作集下界，字节
	PerJobUserTimeLimit     *int64  // 同JobTime，两者写同一个字段
	PerProcessUserTimeLimit *int64  // 单个进程的用户态CPU时间上限
	PreserveJobTime         bool    // 保留已累计的job时间，和JobTime互斥
	PriorityClass           *uint32 // 优先级类，取*PriorityClass常量
	ProcessMemory           *uint64 // 单个进程的内存上限，字节
	ProcessTime             *int64  // 同PerProcessUserTimeLimit
	SchedulingClass         *uint32 // 调度类，0到9
	SilentBreakawayOK       bool    // 子进程默默脱离job，不需要显式请求
	SubsetAffinity          bool    // 亲和掩码按子集解释，同时隐含亲和限制位
}

// limitOption 一种选项到限制位和目标字段的映射
// set把选项值写进记录对应的字段，返回该选项是否被启用
type limitOption struct {
	name  string
	flags uint32
	set   func(o *LimitOptions, r *extendedLimitInformation) bool
}

// limitOptionTable 全部可识别的选项。选项集是封闭的：
// LimitOptions之外的配置在编译期就不可能表达出来
var limitOptionTable = []limitOption{
	{"active_process", LimitActiveProcess, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.ActiveProcess == nil {
			return false
		}
		r.BasicLimitInformation.ActiveProcessLimit = *o.ActiveProcess
		return true
	}},
	{"affinity", LimitAffinity, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.Affinity == nil {
			return false
		}
		r.BasicLimitInformation.Affinity = uintptr(*o.Affinity)
		return true
	}},
	{"breakaway_ok", LimitBreakawayOK, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.BreakawayOK
	}},
	{"die_on_unhandled_exception", LimitDieOnUnhandledException, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.DieOnUnhandledException
	}},
	{"job_memory", LimitJobMemory, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.JobMemory == nil {
			return false
		}
		r.JobMemoryLimit = uintptr(*o.JobMemory)
		return true
	}},
	{"job_time", LimitJobTime, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.JobTime == nil {
			return false
		}
		r.BasicLimitInformation.PerJobUserTimeLimit = *o.JobTime
		return true
	}},
	{"kill_on_job_close", LimitKillOnJobClose, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.KillOnJobClose
	}},
	{"minimum_working_set", LimitWorkingSet, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.MinimumWorkingSet == nil {
			return false
		}
		r.BasicLimitInformation.MinimumWorkingSetSize = uintptr(*o.MinimumWorkingSet)
		return true
	}},
	{"maximum_working_set", LimitWorkingSet, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.MaximumWorkingSet == nil {
			return false
		}
		r.BasicLimitInformation.MaximumWorkingSetSize = uintptr(*o.MaximumWorkingSet)
		return true
	}},
	{"per_job_user_time_limit", LimitJobTime, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.PerJobUserTimeLimit == nil {
			return false
		}
		r.BasicLimitInformation.PerJobUserTimeLimit = *o.PerJobUserTimeLimit
		return true
	}},
	{"per_process_user_time_limit", LimitProcessTime, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.PerProcessUserTimeLimit == nil {
			return false
		}
		r.BasicLimitInformation.PerProcessUserTimeLimit = *o.PerProcessUserTimeLimit
		return true
	}},
	{"preserve_job_time", LimitPreserveJobTime, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.PreserveJobTime
	}},
	{"priority_class", LimitPriorityClass, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.PriorityClass == nil {
			return false
		}
		r.BasicLimitInformation.PriorityClass = *o.PriorityClass
		return true
	}},
	{"process_memory", LimitProcessMemory, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.ProcessMemory == nil {
			return false
		}
		r.ProcessMemoryLimit = uintptr(*o.ProcessMemory)
		return true
	}},
	{"process_time", LimitProcessTime, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.ProcessTime == nil {
			return false
		}
		r.BasicLimitInformation.PerProcessUserTimeLimit = *o.ProcessTime
		return true
	}},
	{"scheduling_class", LimitSchedulingClass, func(o *LimitOptions, r *extendedLimitInformation) bool {
		if o.SchedulingClass == nil {
			return false
		}
		r.BasicLimitInformation.SchedulingClass = *o.SchedulingClass
		return true
	}},
	{"silent_breakaway_ok", LimitSilentBreakawayOK, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.SilentBreakawayOK
	}},
	{"subset_affinity", LimitSubsetAffinity | LimitAffinity, func(o *LimitOptions, r *extendedLimitInformation) bool {
		return o.SubsetAffinity
	}},
}

// buildLimitRecord 把选项翻译成一条完整的扩展限制记录。
// 先逐项填字段并累积限制位，最后才把合并好的位掩码一次性写进LimitFlags
func buildLimitRecord(o *LimitOptions) (*extendedLimitInformation, error) {
	if o == nil {
		return nil, confErr("limit options must not be nil")
	}
	// preserve_job_time和job时间限制互斥，内核不会同时接受，提前拒绝
	if o.PreserveJobTime && (o.JobTime != nil || o.PerJobUserTimeLimit != nil) {
		return nil, confErr("preserve_job_time cannot be combined with a job time limit")
	}

	r := &extendedLimitInformation{}
	var flags uint32
	for _, opt := range limitOptionTable {
		if opt.set(o, r) {
			flags |= opt.flags
		}
	}
	r.BasicLimitInformation.LimitFlags = flags
	return r, nil
}
