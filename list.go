//go:build windows

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
)

// ListProcesses 列出job里当前的进程号
func ListProcesses(name string) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	pids, err := j.ProcessList()
	if err != nil {
		log.Errorf("Query job %s process list error %v", name, err)
		return
	}

	// 使用tabwriter在控制台打印对齐的表格
	w := tabwriter.NewWriter(os.Stdout, 12, 1, 3, ' ', 0)
	fmt.Fprint(w, "JOB\tPID\n")
	for _, pid := range pids {
		fmt.Fprintf(w, "%s\t%d\n", name, pid)
	}
	if err := w.Flush(); err != nil {
		log.Errorf("Flush error %v", err)
		return
	}
}
