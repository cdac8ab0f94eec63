//go:build windows

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/chef/win32-job/job"
	"github.com/chef/win32-job/process"
)

// 优先级参数到优先级类常量的映射
var priorityClasses = map[string]uint32{
	"idle":         job.IdlePriorityClass,
	"below_normal": job.BelowNormalPriorityClass,
	"normal":       job.NormalPriorityClass,
	"above_normal": job.AboveNormalPriorityClass,
	"high":         job.HighPriorityClass,
	"realtime":     job.RealtimePriorityClass,
}

// buildLimitOptions 把命令行参数翻译成限制配置，一个参数都没给时返回nil
func buildLimitOptions(context *cli.Context) (*job.LimitOptions, error) {
	opts := &job.LimitOptions{}
	set := false

	if v := context.Uint64("mem"); v > 0 {
		opts.JobMemory = &v
		set = true
	}
	if v := context.Uint64("procmem"); v > 0 {
		opts.ProcessMemory = &v
		set = true
	}
	if v := context.Uint("maxprocs"); v > 0 {
		n := uint32(v)
		opts.ActiveProcess = &n
		set = true
	}
	if v := context.Uint64("affinity"); v > 0 {
		opts.Affinity = &v
		set = true
	}
	if v := context.String("priority"); v != "" {
		class, ok := priorityClasses[v]
		if !ok {
			return nil, fmt.Errorf("unknown priority class %s", v)
		}
		opts.PriorityClass = &class
		set = true
	}
	if context.IsSet("sched") {
		n := uint32(context.Uint("sched"))
		opts.SchedulingClass = &n
		set = true
	}
	if v := context.Int64("jobtime"); v > 0 {
		opts.JobTime = &v
		set = true
	}
	if v := context.Int64("proctime"); v > 0 {
		opts.ProcessTime = &v
		set = true
	}
	if v := context.Uint64("minws"); v > 0 {
		opts.MinimumWorkingSet = &v
		set = true
	}
	if v := context.Uint64("maxws"); v > 0 {
		opts.MaximumWorkingSet = &v
		set = true
	}
	if context.Bool("kill-on-close") {
		opts.KillOnJobClose = true
		set = true
	}
	if context.Bool("breakaway-ok") {
		opts.BreakawayOK = true
		set = true
	}
	if context.Bool("silent-breakaway") {
		opts.SilentBreakawayOK = true
		set = true
	}
	if context.Bool("die-on-exception") {
		opts.DieOnUnhandledException = true
		set = true
	}

	if !set {
		return nil, nil
	}
	return opts, nil
}

/*
	Run 执行流程
	1. 创建（或打开同名的）job object
	2. 先下发资源限制，保证工作进程从一开始就被限制住
	3. 启动工作进程并分配进job
	4. 按参数决定是等job排空还是直接返回
*/
func Run(name string, cmdArray []string, opts *job.LimitOptions, tty, breakaway, wait bool) {
	j, err := job.New(name)
	if err != nil {
		log.Errorf("New job %s error %v", name, err)
		return
	}
	defer j.Close()

	if opts != nil {
		if err := j.ConfigureLimits(opts); err != nil {
			log.Errorf("Configure job %s error %v", name, err)
			return
		}
	}

	cmd := process.NewWorkerProcess(cmdArray[0], cmdArray[1:], tty, breakaway)
	if err := cmd.Start(); err != nil {
		log.Errorf("Start worker error %v", err)
		return
	}
	pid := uint32(cmd.Process.Pid)

	if err := j.AddProcess(pid); err != nil {
		log.Errorf("Assign pid %d to job %s error %v", pid, name, err)
		return
	}
	log.Infof("job %s worker pid %d", name, pid)

	if wait {
		// 等到job里最后一个进程退出，包括工作进程再起的子进程
		if err := j.Wait(); err != nil {
			log.Errorf("Wait job %s error %v", name, err)
		}
		return
	}
	if tty {
		if err := cmd.Wait(); err != nil {
			log.Errorf("Worker exit error %v", err)
		}
		return
	}
	// 不等了，把进程句柄放掉，job和工作进程留在后台
	if err := cmd.Process.Release(); err != nil {
		log.Errorf("Release worker process error %v", err)
	}
}
