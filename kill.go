//go:build windows

package main

import (
	log "github.com/sirupsen/logrus"
)

// KillJob 结束job里的所有进程。只发终止请求，不等进程退出
func KillJob(name string) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	if err := j.Kill(); err != nil {
		log.Errorf("Kill job %s error %v", name, err)
		return
	}
	log.Infof("job %s terminated", name)
}

// WaitJob 阻塞到job里的活动进程数降为0
func WaitJob(name string) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	if err := j.Wait(); err != nil {
		log.Errorf("Wait job %s error %v", name, err)
		return
	}
	log.Infof("job %s drained", name)
}
