package job

// job object的限制位，对应内核的JOB_OBJECT_LIMIT_*常量
// 每一位启用一种针对整个job的资源限制策略
const (
	LimitWorkingSet              uint32 = 0x00000001
	LimitProcessTime             uint32 = 0x00000002
	LimitJobTime                 uint32 = 0x00000004
	LimitActiveProcess           uint32 = 0x00000008
	LimitAffinity                uint32 = 0x00000010
	LimitPriorityClass           uint32 = 0x00000020
	LimitPreserveJobTime         uint32 = 0x00000040
	LimitSchedulingClass         uint32 = 0x00000080
	LimitProcessMemory           uint32 = 0x00000100
	LimitJobMemory               uint32 = 0x00000200
	LimitDieOnUnhandledException uint32 = 0x00000400
	LimitBreakawayOK             uint32 = 0x00000800
	LimitSilentBreakawayOK       uint32 = 0x00001000
	LimitKillOnJobClose          uint32 = 0x00002000
	LimitSubsetAffinity          uint32 = 0x00004000
)

// 优先级类，对应*_PRIORITY_CLASS，作用于job里的所有进程
const (
	NormalPriorityClass      uint32 = 0x00000020
	IdlePriorityClass        uint32 = 0x00000040
	HighPriorityClass        uint32 = 0x00000080
	RealtimePriorityClass    uint32 = 0x00000100
	BelowNormalPriorityClass uint32 = 0x00004000
	AboveNormalPriorityClass uint32 = 0x00008000
)

// Set/QueryInformationJobObject用的信息类编号
const (
	jobObjectBasicProcessIDList                 uint32 = 3
	jobObjectAssociateCompletionPortInformation uint32 = 7
	jobObjectBasicAndIoAccountingInformation    uint32 = 8
	jobObjectExtendedLimitInformation           uint32 = 9
)

// 完成端口消息号：job中活动进程数降为0
const jobObjectMsgActiveProcessZero uint32 = 4

// OpenProcess的完全访问权限
const processAllAccess uint32 = 0x1F0FFF
