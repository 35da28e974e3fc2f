package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/modelkit/pkg/storage/xblob"
	"github.com/omeyang/modelkit/pkg/util/xhash"
)

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 参数使用错误，映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createListCommand(),
		createStatsCommand(),
		createVerifyCommand(),
		createPurgeCommand(),
	}
}

func createListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "列出缓存条目",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "long",
				Aliases: []string{"l"},
				Usage:   "显示大小与修改时间",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}
			return cmdList(ctx, dir, cmd.Bool("long"))
		},
	}
}

func createStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "统计缓存条目数与占用空间",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}
			return cmdStats(ctx, dir)
		},
	}
}

func createVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "校验缓存条目可读性并报告残留临时文件",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "digest",
				Usage: "输出每个条目内容的 xxhash 摘要",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}
			return cmdVerify(ctx, dir, cmd.Bool("digest"))
		},
	}
}

func createPurgeCommand() *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "删除缓存条目",
		ArgsUsage: "[key...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "删除全部条目",
			},
			&cli.DurationFlag{
				Name:  "older-than",
				Usage: "仅删除修改时间早于该时长的条目",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}
			return cmdPurge(ctx, dir, cmd.Args().Slice(), cmd.Bool("all"), cmd.Duration("older-than"))
		},
	}
}

// cmdList 列出缓存条目，按键名排序。
func cmdList(ctx context.Context, dir string, long bool) error {
	store, err := xblob.New(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !long {
			fmt.Println(key)
			continue
		}
		info, err := store.Stat(ctx, key)
		if err != nil {
			// 条目可能在 Keys 与 Stat 之间被删除
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", key, formatSize(info.Size), info.ModTime.Format(time.RFC3339))
	}
	return nil
}

// cacheStats 目录统计结果。
type cacheStats struct {
	Entries    int
	TotalBytes int64
	Oldest     time.Time
	Newest     time.Time
}

// collectStats 汇总目录下所有条目的统计信息。
func collectStats(ctx context.Context, store xblob.Store) (cacheStats, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return cacheStats{}, err
	}

	var st cacheStats
	for _, key := range keys {
		info, err := store.Stat(ctx, key)
		if err != nil {
			continue
		}
		st.Entries++
		st.TotalBytes += info.Size
		if st.Oldest.IsZero() || info.ModTime.Before(st.Oldest) {
			st.Oldest = info.ModTime
		}
		if info.ModTime.After(st.Newest) {
			st.Newest = info.ModTime
		}
	}
	return st, nil
}

// cmdStats 输出缓存目录统计。
func cmdStats(ctx context.Context, dir string) error {
	store, err := xblob.New(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	st, err := collectStats(ctx, store)
	if err != nil {
		return err
	}

	fmt.Printf("目录:   %s\n", dir)
	fmt.Printf("条目数: %d\n", st.Entries)
	fmt.Printf("总大小: %s\n", formatSize(st.TotalBytes))
	if st.Entries > 0 {
		fmt.Printf("最旧:   %s\n", st.Oldest.Format(time.RFC3339))
		fmt.Printf("最新:   %s\n", st.Newest.Format(time.RFC3339))
	}
	return nil
}

// verifyResult 单次校验的汇总结果。
type verifyResult struct {
	Checked    int
	Unreadable []string
	StaleTemps []string
}

// ok 校验是否全部通过。
func (r *verifyResult) ok() bool {
	return len(r.Unreadable) == 0 && len(r.StaleTemps) == 0
}

// verifyStore 完整读取每个条目以确认可读，并扫描残留的临时文件。
// 临时文件是写入方异常退出的遗留物，提示空间需要人工回收。
func verifyStore(ctx context.Context, store xblob.Store, dir string, digest bool) (*verifyResult, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	res := &verifyResult{}
	for _, key := range keys {
		rc, err := store.Open(ctx, key)
		if err != nil {
			res.Unreadable = append(res.Unreadable, key)
			continue
		}
		sum, err := xhash.SumReader(rc)
		_ = rc.Close()
		if err != nil {
			res.Unreadable = append(res.Unreadable, key)
			continue
		}
		res.Checked++
		if digest {
			fmt.Printf("%s\t%s\n", key, sum)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		res.StaleTemps = append(res.StaleTemps, filepath.Join(dir, entry.Name()))
	}

	return res, nil
}

// cmdVerify 校验缓存目录。发现问题时返回退出码 1。
func cmdVerify(ctx context.Context, dir string, digest bool) error {
	store, err := xblob.New(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	res, err := verifyStore(ctx, store, dir, digest)
	if err != nil {
		return err
	}

	fmt.Printf("已校验: %d\n", res.Checked)
	for _, key := range res.Unreadable {
		fmt.Fprintf(os.Stderr, "不可读: %s\n", key)
	}
	for _, path := range res.StaleTemps {
		fmt.Fprintf(os.Stderr, "残留临时文件: %s\n", path)
	}

	if !res.ok() {
		return &exitError{code: 1}
	}
	return nil
}

// selectPurgeKeys 根据参数挑选待删除的键。
// 显式指定的键直接返回；--all/--older-than 从目录枚举筛选。
func selectPurgeKeys(ctx context.Context, store xblob.Store, keys []string, all bool, olderThan time.Duration) ([]string, error) {
	if len(keys) > 0 {
		return keys, nil
	}
	if !all && olderThan <= 0 {
		return nil, &usageError{msg: "purge 需要指定键、--all 或 --older-than"}
	}

	candidates, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if olderThan <= 0 {
		return candidates, nil
	}

	cutoff := time.Now().Add(-olderThan)
	var selected []string
	for _, key := range candidates {
		info, err := store.Stat(ctx, key)
		if err != nil {
			continue
		}
		if info.ModTime.Before(cutoff) {
			selected = append(selected, key)
		}
	}
	return selected, nil
}

// cmdPurge 删除缓存条目。
func cmdPurge(ctx context.Context, dir string, keys []string, all bool, olderThan time.Duration) error {
	store, err := xblob.New(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	selected, err := selectPurgeKeys(ctx, store, keys, all, olderThan)
	if err != nil {
		return err
	}

	var removed, failed int
	for _, key := range selected {
		if err := store.Remove(ctx, key); err != nil {
			fmt.Fprintf(os.Stderr, "删除失败: %s: %v\n", key, err)
			failed++
			continue
		}
		removed++
	}

	fmt.Printf("已删除: %d\n", removed)
	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// formatSize 格式化字节数为人类可读形式。
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
