//go:build windows

package process

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// 让子进程脱离父进程所在的job。winjob自己如果跑在某个job里
// （比如被CI代理启动），不加这个标志新进程生下来就带job，没法再分配
const createBreakawayFromJob = 0x01000000

// NewWorkerProcess 创建一个待加入job object的工作进程。
// 进程起在新的进程组里；breakaway为true时脱离继承来的job。
// tty为true时把标准输入输出接到当前终端上
func NewWorkerProcess(command string, args []string, tty, breakaway bool) *exec.Cmd {
	cmd := exec.Command(command, args...)
	flags := uint32(windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_UNICODE_ENVIRONMENT)
	if breakaway {
		flags |= createBreakawayFromJob
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: flags,
	}
	if tty {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd
}
