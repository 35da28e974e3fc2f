// xcachectl 是 modelkit 编译缓存目录的运维命令行工具。
//
// 用法:
//
//	xcachectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-d, --dir      缓存目录路径
//	-c, --config   配置文件路径（YAML/JSON，读取 cache.dir）
//
// 命令:
//
//	list           列出缓存条目
//	stats          统计缓存条目数与占用空间
//	verify         校验缓存条目可读性并报告残留临时文件
//	purge          删除缓存条目（指定键、--all 或 --older-than）
//	help           显示帮助信息
//
// --dir 与 --config 同时指定时，--dir 优先。
//
// 退出码:
//
//	0: 命令执行成功（verify 命令: 全部条目通过校验）
//	1: 命令执行失败或校验发现问题（verify 命令）
//	2: 参数错误（缺少目录、未知命令等）
//
// 示例:
//
//	xcachectl -d /var/cache/modelkit list --long
//	xcachectl -d /var/cache/modelkit stats
//	xcachectl -d /var/cache/modelkit verify --digest
//	xcachectl -d /var/cache/modelkit purge --older-than 168h
//	xcachectl -c /etc/modelkit/cache.yaml purge --all
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/modelkit/pkg/config/xconf"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xcachectl",
		Usage:   "modelkit 编译缓存运维工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "缓存目录路径",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（读取 cache.dir）",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run() int {
	app := createApp()

	if err := app.Run(context.Background(), os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if _, ok := err.(cli.ExitCoder); ok {
			// ExitErrHandler 已输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// resolveDir 解析缓存目录: --dir 优先，其次 --config 中的 cache.dir。
func resolveDir(cmd *cli.Command) (string, error) {
	if dir := cmd.String("dir"); dir != "" {
		return dir, nil
	}

	configPath := cmd.String("config")
	if configPath == "" {
		return "", &usageError{msg: "必须指定 --dir 或 --config"}
	}

	cfg, err := xconf.New(configPath)
	if err != nil {
		return "", fmt.Errorf("加载配置失败: %w", err)
	}
	cc, err := xconf.LoadCacheConfig(cfg)
	if err != nil {
		return "", fmt.Errorf("解析缓存配置失败: %w", err)
	}
	return cc.Dir, nil
}
