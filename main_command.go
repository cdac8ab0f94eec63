//go:build windows

package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/urfave/cli"
)

// run和limit共用的限制参数
var limitFlags = []cli.Flag{
	cli.Uint64Flag{
		Name:  "mem",
		Usage: "job memory limit in bytes",
	},
	cli.Uint64Flag{
		Name:  "procmem",
		Usage: "per process memory limit in bytes",
	},
	cli.UintFlag{
		Name:  "maxprocs",
		Usage: "active process limit",
	},
	cli.Uint64Flag{
		Name:  "affinity",
		Usage: "processor affinity mask",
	},
	cli.StringFlag{
		Name:  "priority",
		Usage: "priority class: idle|below_normal|normal|above_normal|high|realtime",
	},
	cli.UintFlag{
		Name:  "sched",
		Usage: "scheduling class 0-9",
	},
	cli.Int64Flag{
		Name:  "jobtime",
		Usage: "per job user time limit in 100ns ticks",
	},
	cli.Int64Flag{
		Name:  "proctime",
		Usage: "per process user time limit in 100ns ticks",
	},
	cli.Uint64Flag{
		Name:  "minws",
		Usage: "minimum working set size in bytes",
	},
	cli.Uint64Flag{
		Name:  "maxws",
		Usage: "maximum working set size in bytes",
	},
	cli.BoolFlag{
		Name:  "kill-on-close",
		Usage: "kill every process in the job when the last handle closes",
	},
	cli.BoolFlag{
		Name:  "breakaway-ok",
		Usage: "allow children to break away from the job",
	},
	cli.BoolFlag{
		Name:  "silent-breakaway",
		Usage: "children silently break away from the job",
	},
	cli.BoolFlag{
		Name:  "die-on-exception",
		Usage: "terminate processes on unhandled exceptions instead of showing a dialog",
	},
}

// run命令
var runCommand = cli.Command{
	Name:  "run",
	Usage: "Run a command inside a job object with resource limits: winjob run -mem 67108864 [command]",
	Flags: append([]cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name, generated when empty",
		},
		cli.BoolFlag{
			Name:  "ti",
			Usage: "attach the worker to the current terminal",
		},
		cli.BoolFlag{
			Name:  "breakaway",
			Usage: "start the worker outside any inherited job",
		},
		cli.BoolFlag{
			Name:  "wait",
			Usage: "block until every process in the job has exited",
		},
	}, limitFlags...),
	/* run命令执行的真正函数
	1. 判断参数是否包含command
	2. 解析限制参数
	3. 调用Run function 创建job并启动工作进程
	*/
	Action: func(context *cli.Context) error {
		if len(context.Args()) < 1 {
			return fmt.Errorf("Missing worker command")
		}
		var cmdArray []string
		for _, arg := range context.Args() {
			cmdArray = append(cmdArray, arg)
		}
		opts, err := buildLimitOptions(context)
		if err != nil {
			return err
		}
		name := context.String("name")
		if name == "" {
			// job object的名字是系统级共享的，没指定就生成一个避免撞名
			name = "winjob-" + uuid.New().String()
		}
		Run(name, cmdArray, opts, context.Bool("ti"), context.Bool("breakaway"), context.Bool("wait"))
		return nil
	},
}

// add命令，把已经在跑的进程加入job
var addCommand = cli.Command{
	Name:  "add",
	Usage: "Assign running processes to a job object: winjob add -name myjob 1234 5678",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		if len(context.Args()) < 1 {
			return fmt.Errorf("Missing pid")
		}
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		var pids []uint32
		for _, arg := range context.Args() {
			pid, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pid %s: %v", arg, err)
			}
			pids = append(pids, uint32(pid))
		}
		AddPids(name, pids)
		return nil
	},
}

// limit命令，对已有job重新下发限制
var limitCommand = cli.Command{
	Name:  "limit",
	Usage: "Apply resource limits to an existing job object",
	Flags: append([]cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	}, limitFlags...),
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		opts, err := buildLimitOptions(context)
		if err != nil {
			return err
		}
		if opts == nil {
			return fmt.Errorf("no limit option provided")
		}
		ConfigureJob(name, opts)
		return nil
	},
}

// ps命令
var listCommand = cli.Command{
	Name:  "ps",
	Usage: "list the processes currently in a job object",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		ListProcesses(name)
		return nil
	},
}

// info命令，打印当前生效的限制
var infoCommand = cli.Command{
	Name:  "info",
	Usage: "print the effective limits of a job object",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		PrintLimitInfo(name)
		return nil
	},
}

// account命令，打印累计的资源统计
var accountCommand = cli.Command{
	Name:  "account",
	Usage: "print the accumulated accounting of a job object",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		PrintAccountInfo(name)
		return nil
	},
}

// kill命令
var killCommand = cli.Command{
	Name:  "kill",
	Usage: "terminate every process in a job object",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		KillJob(name)
		return nil
	},
}

// wait命令
var waitCommand = cli.Command{
	Name:  "wait",
	Usage: "block until every process in a job object has exited",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "job object name",
		},
	},
	Action: func(context *cli.Context) error {
		name := context.String("name")
		if name == "" {
			return fmt.Errorf("Missing job name")
		}
		WaitJob(name)
		return nil
	},
}
