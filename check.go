package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/donutnomad/deepcopygen/plugin"
	"github.com/samber/lo"
)

// runCheck 生成到内存中并与磁盘上的文件比较
func runCheck(args []string) {
	opts := runOptions(args)
	opts.DryRun = true

	stats, runErr := plugin.Run(context.Background(), opts)
	if stats == nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", runErr)
		os.Exit(1)
	}

	stale, err := diffOutputs(stats.Outputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stale > 0 {
		fmt.Fprintf(os.Stderr, "错误: %d 个生成文件需要更新，请运行 deepcopygen\n", stale)
		os.Exit(1)
	}
	// 诊断错误和生成失败同样视为检查不通过
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", runErr)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("检查通过: %d 个生成文件均为最新\n", len(stats.Outputs))
	}
}

// diffOutputs 输出每个过期文件的差异，返回过期文件数
func diffOutputs(outputs map[string][]byte) (int, error) {
	paths := lo.Keys(outputs)
	slices.Sort(paths)

	stale := 0
	for _, path := range paths {
		d, err := plugin.Diff(path, outputs[path])
		if err != nil {
			return stale, err
		}
		if d == "" {
			continue
		}
		stale++
		fmt.Print(d)
	}
	return stale, nil
}
