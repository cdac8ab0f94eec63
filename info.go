//go:build windows

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
)

// PrintAccountInfo 打印job累计的资源统计。时间是内核原生的100纳秒单位
func PrintAccountInfo(name string) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	info, err := j.AccountInfo()
	if err != nil {
		log.Errorf("Query job %s accounting error %v", name, err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 12, 1, 3, ' ', 0)
	fmt.Fprintf(w, "total_user_time\t%d\n", info.TotalUserTime)
	fmt.Fprintf(w, "total_kernel_time\t%d\n", info.TotalKernelTime)
	fmt.Fprintf(w, "this_period_total_user_time\t%d\n", info.ThisPeriodTotalUserTime)
	fmt.Fprintf(w, "this_period_total_kernel_time\t%d\n", info.ThisPeriodTotalKernelTime)
	fmt.Fprintf(w, "total_page_fault_count\t%d\n", info.TotalPageFaultCount)
	fmt.Fprintf(w, "total_processes\t%d\n", info.TotalProcesses)
	fmt.Fprintf(w, "active_processes\t%d\n", info.ActiveProcesses)
	fmt.Fprintf(w, "total_terminated_processes\t%d\n", info.TotalTerminatedProcesses)
	fmt.Fprintf(w, "read_operation_count\t%d\n", info.ReadOperationCount)
	fmt.Fprintf(w, "write_operation_count\t%d\n", info.WriteOperationCount)
	fmt.Fprintf(w, "other_operation_count\t%d\n", info.OtherOperationCount)
	fmt.Fprintf(w, "read_transfer_count\t%d\n", info.ReadTransferCount)
	fmt.Fprintf(w, "write_transfer_count\t%d\n", info.WriteTransferCount)
	fmt.Fprintf(w, "other_transfer_count\t%d\n", info.OtherTransferCount)
	if err := w.Flush(); err != nil {
		log.Errorf("Flush error %v", err)
		return
	}
}

// PrintLimitInfo 打印job当前生效的限制和内存使用峰值
func PrintLimitInfo(name string) {
	j, err := openJob(name)
	if err != nil {
		log.Errorf("Open job %s error %v", name, err)
		return
	}
	defer j.Close()

	info, err := j.LimitInfo()
	if err != nil {
		log.Errorf("Query job %s limits error %v", name, err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 12, 1, 3, ' ', 0)
	fmt.Fprintf(w, "limit_flags\t0x%08x\n", info.LimitFlags)
	fmt.Fprintf(w, "per_process_user_time_limit\t%d\n", info.PerProcessUserTimeLimit)
	fmt.Fprintf(w, "per_job_user_time_limit\t%d\n", info.PerJobUserTimeLimit)
	fmt.Fprintf(w, "minimum_working_set_size\t%d\n", info.MinimumWorkingSetSize)
	fmt.Fprintf(w, "maximum_working_set_size\t%d\n", info.MaximumWorkingSetSize)
	fmt.Fprintf(w, "active_process_limit\t%d\n", info.ActiveProcessLimit)
	fmt.Fprintf(w, "affinity\t0x%x\n", info.Affinity)
	fmt.Fprintf(w, "priority_class\t%d\n", info.PriorityClass)
	fmt.Fprintf(w, "scheduling_class\t%d\n", info.SchedulingClass)
	fmt.Fprintf(w, "process_memory_limit\t%d\n", info.ProcessMemoryLimit)
	fmt.Fprintf(w, "job_memory_limit\t%d\n", info.JobMemoryLimit)
	fmt.Fprintf(w, "peak_process_memory_used\t%d\n", info.PeakProcessMemoryUsed)
	fmt.Fprintf(w, "peak_job_memory_used\t%d\n", info.PeakJobMemoryUsed)
	if err := w.Flush(); err != nil {
		log.Errorf("Flush error %v", err)
		return
	}
}
