//go:build windows

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/chef/win32-job/job"
)

// openJob 按名字打开job object。创建同名对象拿到的就是已存在的那个内核对象，
// 所以只要job里还有进程存活，这里就能重新拿到句柄
func openJob(name string) (*job.Job, error) {
	return job.New(name)
}

// ConfigureJob 对已有job下发一条完整的限制记录
func ConfigureJob(name string, opts *job.LimitOptions) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	if err := j.ConfigureLimits(opts); err != nil {
		log.Errorf("Configure job %s error %v", name, err)
		return
	}
	log.Infof("job %s limits configured", name)
}

// AddPids 把一批已经在跑的进程分配进job，失败的单独报错，不影响其它pid
func AddPids(name string, pids []uint32) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	for _, pid := range pids {
		if err := j.AddProcess(pid); err != nil {
			log.Errorf("Assign pid %d to job %s error %v", pid, name, err)
			continue
		}
		log.Infof("pid %d assigned to job %s", pid, name)
	}
}
