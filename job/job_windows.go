//go:build windows

package job

import (
	"runtime"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// Job 持有一个内核job object句柄，进程加进来之后就能按组限制资源和统计用量。
// 一个Job实例预期只在单个goroutine里使用，内部不加锁；
// 内核句柄本身是系统级共享资源，多个实例打开同名对象时由内核串行化访问
type Job struct {
	name   string
	handle windows.Handle
	port   windows.Handle // Wait用的完成端口，惰性创建
	closed bool
	pids   []uint32
	api    jobAPI
}

// jobAPI 把用到的内核调用收拢成一层，测试里换成记录调用的桩
type jobAPI interface {
	CreateJobObject(name *uint16) (windows.Handle, error)
	OpenProcess(access uint32, pid uint32) (windows.Handle, error)
	IsProcessInJob(process windows.Handle) (bool, error)
	AssignProcessToJobObject(job, process windows.Handle) error
	SetInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error
	QueryInformationJobObject(job windows.Handle, class uint32, info unsafe.Pointer, length uint32) error
	TerminateJobObject(job windows.Handle, exitCode uint32) error
	CreateIoCompletionPort() (windows.Handle, error)
	GetQueuedCompletionStatus(port windows.Handle, code *uint32, key *uintptr, overlapped **windows.Overlapped) error
	CloseHandle(h windows.Handle) error
}

// 对应JOBOBJECT_ASSOCIATE_COMPLETION_PORT
type completionPortInformation struct {
	CompletionKey  uintptr
	CompletionPort windows.Handle
}

// New 创建一个job object，name为空表示匿名。
// 注意名字是系统级共享的命名空间：如果同名对象已经存在，拿到的是那个已有对象，
// 不保证是全新的job
func New(name string) (*Job, error) {
	return create(name, winAPI{})
}

func create(name string, api jobAPI) (*Job, error) {
	var namePtr *uint16
	if name != "" {
		p, err := windows.UTF16PtrFromString(name)
		if err != nil {
			return nil, &Error{Kind: KindHandleCreation, Reason: "invalid job name: " + err.Error()}
		}
		namePtr = p
	}
	h, err := api.CreateJobObject(namePtr)
	if err != nil {
		return nil, sysErr(KindHandleCreation, "CreateJobObjectW", err)
	}
	j := &Job{name: name, handle: h, api: api}
	// 兜底释放：调用方忘了Close时由finalizer收回句柄。
	// finalize检查的是执行时刻的closed标志，显式Close过就不会再关
	runtime.SetFinalizer(j, (*Job).finalize)
	return j, nil
}

func (j *Job) finalize() {
	if j.closed {
		return
	}
	log.Warnf("job %q handle released by finalizer, Close was never called", j.name)
	j.Close()
}

// Name 返回创建时指定的名字，匿名job返回空串
func (j *Job) Name() string {
	return j.name
}

// Processes 返回本实例成功分配过的进程号，只是本地登记，不查内核
func (j *Job) Processes() []uint32 {
	out := make([]uint32, len(j.pids))
	copy(out, j.pids)
	return out
}

// Close 释放job object句柄。幂等：重复调用什么都不做。
// 句柄关掉不代表job消失，只要里面还有进程存活，内核对象就还在
func (j *Job) Close() {
	if j.closed {
		return
	}
	j.closed = true
	runtime.SetFinalizer(j, nil)
	if j.port != 0 {
		if err := j.api.CloseHandle(j.port); err != nil {
			log.Warnf("close completion port fail %v", err)
		}
		j.port = 0
	}
	if err := j.api.CloseHandle(j.handle); err != nil {
		log.Warnf("close job handle fail %v", err)
	}
	j.handle = 0
}

// AddProcess 按pid打开进程并分配进这个job。
// 已经属于任何job的进程不能再分配。先查后加这两步对外部并发没有原子性，
// 同一个pid被别的执行方同时分配时以内核结果为准
func (j *Job) AddProcess(pid uint32) error {
	if j.closed {
		return &Error{Kind: KindAssignment, Reason: "job is closed"}
	}
	if len(j.pids) >= MaxProcesses {
		return &Error{Kind: KindListCapacity, Reason: "no more than 100 processes per job"}
	}
	for _, p := range j.pids {
		if p == pid {
			return &Error{Kind: KindAlreadyAssigned, Reason: "process already assigned to this job"}
		}
	}

	h, err := j.api.OpenProcess(processAllAccess, pid)
	if err != nil {
		return sysErr(KindProcessOpen, "OpenProcess", err)
	}
	defer j.api.CloseHandle(h)

	inJob, err := j.api.IsProcessInJob(h)
	if err != nil {
		return sysErr(KindAssignment, "IsProcessInJob", err)
	}
	if inJob {
		return &Error{Kind: KindAlreadyAssigned, Reason: "process already belongs to a job"}
	}

	if err := j.api.AssignProcessToJobObject(j.handle, h); err != nil {
		return sysErr(KindAssignment, "AssignProcessToJobObject", err)
	}
	// 内核调用成功之后才登记
	j.pids = append(j.pids, pid)
	return nil
}

// ConfigureLimits 校验选项、翻译成一条扩展限制记录并提交给内核。
// 每次调用提交的是完整的一条记录，这里不和上一次的配置做合并
func (j *Job) ConfigureLimits(opts *LimitOptions) error {
	if j.closed {
		return confErr("job is closed")
	}
	rec, err := buildLimitRecord(opts)
	if err != nil {
		return err
	}
	if err := j.api.SetInformationJobObject(j.handle, jobObjectExtendedLimitInformation,
		unsafe.Pointer(rec), uint32(unsafe.Sizeof(*rec))); err != nil {
		return sysErr(KindLimitSet, "SetInformationJobObject", err)
	}
	return nil
}

func (j *Job) query(class uint32, info unsafe.Pointer, length uint32) error {
	if j.closed {
		return &Error{Kind: KindQuery, Reason: "job is closed"}
	}
	if err := j.api.QueryInformationJobObject(j.handle, class, info, length); err != nil {
		return sysErr(KindQuery, "QueryInformationJobObject", err)
	}
	return nil
}

// ProcessList 查内核里这个job当前的进程号列表
func (j *Job) ProcessList() ([]uint32, error) {
	var rec processIDList
	if err := j.query(jobObjectBasicProcessIDList, unsafe.Pointer(&rec), uint32(unsafe.Sizeof(rec))); err != nil {
		return nil, err
	}
	return rec.pids(), nil
}

// AccountInfo 查job的累计资源统计
func (j *Job) AccountInfo() (*AccountInfo, error) {
	var rec basicAndIoAccountingInformation
	if err := j.query(jobObjectBasicAndIoAccountingInformation, unsafe.Pointer(&rec), uint32(unsafe.Sizeof(rec))); err != nil {
		return nil, err
	}
	return decodeAccountInfo(&rec), nil
}

// LimitInfo 查job当前生效的限制和IO、内存峰值
func (j *Job) LimitInfo() (*LimitInfo, error) {
	var rec extendedLimitInformation
	if err := j.query(jobObjectExtendedLimitInformation, unsafe.Pointer(&rec), uint32(unsafe.Sizeof(rec))); err != nil {
		return nil, err
	}
	return decodeLimitInfo(&rec), nil
}

// Terminate 请求结束job里的所有进程，只发请求，不等进程退出
func (j *Job) Terminate(exitCode uint32) error {
	if j.closed {
		return &Error{Kind: KindTermination, Reason: "job is closed"}
	}
	if err := j.api.TerminateJobObject(j.handle, exitCode); err != nil {
		return sysErr(KindTermination, "TerminateJobObject", err)
	}
	return nil
}

// Kill 同Terminate，退出码用0
func (j *Job) Kill() error {
	return j.Terminate(0)
}

// Wait 阻塞到job里的活动进程数降为0。
// 实现方式是给job挂一个完成端口，然后排空消息直到收到进程数归零的通知。
// 没有超时机制，和其他调用一样跑到内核返回为止
func (j *Job) Wait() error {
	if j.closed {
		return &Error{Kind: KindWait, Reason: "job is closed"}
	}
	if j.port == 0 {
		port, err := j.api.CreateIoCompletionPort()
		if err != nil {
			return sysErr(KindWait, "CreateIoCompletionPort", err)
		}
		info := completionPortInformation{
			CompletionKey:  uintptr(j.handle),
			CompletionPort: port,
		}
		if err := j.api.SetInformationJobObject(j.handle, jobObjectAssociateCompletionPortInformation,
			unsafe.Pointer(&info), uint32(unsafe.Sizeof(info))); err != nil {
			j.api.CloseHandle(port)
			return sysErr(KindWait, "SetInformationJobObject", err)
		}
		j.port = port
	}
	for {
		var code uint32
		var key uintptr
		var overlapped *windows.Overlapped
		if err := j.api.GetQueuedCompletionStatus(j.port, &code, &key, &overlapped); err != nil {
			return sysErr(KindWait, "GetQueuedCompletionStatus", err)
		}
		if code == jobObjectMsgActiveProcessZero {
			return nil
		}
	}
}
