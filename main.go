//go:build windows

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const usage = `winjob groups processes into a Windows job object, enforces resource limits on the group and reports its accounting.`

func main() {
	app := cli.NewApp()
	app.Name = "winjob"
	app.Usage = usage

	// 定义基本命令
	app.Commands = []cli.Command{
		runCommand,
		addCommand,
		limitCommand,
		listCommand,
		infoCommand,
		accountCommand,
		killCommand,
		waitCommand,
	}

	// 初始化日志配置，失败不会执行命令
	app.Before = func(context *cli.Context) error {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetOutput(os.Stdout)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
