package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/donutnomad/deepcopygen/deepcopygen"
	"github.com/donutnomad/deepcopygen/plugin"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

var (
	verbose   = flag.Bool("v", false, "详细输出")
	help      = flag.Bool("h", false, "显示帮助信息")
	async     = flag.Bool("async", true, "异步执行生成器（默认 true）")
	workers   = flag.Int("workers", runtime.NumCPU(), "扫描和生成的并行度")
	markerDir = flag.String("marker", "", "标记声明 DeepCopiable 的输出目录，为空时不输出")
	jsonDiag  = flag.Bool("json", false, "诊断以 JSON 行输出")
	buildTags = flag.String("tags", "", "加载包时使用的构建标签，逗号分隔")
	noColor   = flag.Bool("no-color", false, "禁用彩色输出")
	cacheSize = flag.Int("cache", 64, "dev 模式下缓存的已加载包数量")
)

// register 按命令行选项注册生成器
func register() {
	plugin.MustRegister(deepcopygen.NewDeepCopyGenerator(
		deepcopygen.WithMarkerDir(*markerDir),
		deepcopygen.WithLoaderOptions(
			deepcopygen.WithBuildTags(strings.Split(*buildTags, ",")...),
			deepcopygen.WithCacheSize(*cacheSize),
		),
	))
}

func main() {
	flag.Usage = usage
	flag.Parse()
	register()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()

	// 默认命令是 gen
	if len(args) == 0 {
		runGen([]string{"./..."})
		return
	}

	cmd := args[0]
	switch cmd {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	case "check":
		runCheck(args[1:])
	default:
		// 不是子命令，当作路径参数处理，执行 gen
		runGen(args)
	}
}

// runOptions 根据命令行选项构造运行选项
func runOptions(patterns []string) *plugin.RunOptions {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	wd, _ := os.Getwd()
	return &plugin.RunOptions{
		Registry: plugin.Global(),
		Patterns: patterns,
		Verbose:  *verbose,
		Async:    *async,
		Workers:  *workers,
		JSON:     *jsonDiag,
		Color:    !*noColor && !color.NoColor,
		BaseDir:  wd,
	}
}

func runGen(args []string) {
	registry := plugin.Global()
	if len(registry.Generators()) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 没有已注册的生成器")
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, index int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	stats, err := plugin.Run(context.Background(), runOptions(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		fmt.Printf("\n统计: 扫描 %d 个目标, 生成 %d 个文件, 跳过 %d 个\n", stats.TargetCount, stats.FileCount, stats.SkippedCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `deepcopygen - 为带 @DeepCopiable 注解的结构体生成 DeepCopy 方法

用法:
  deepcopygen [选项] [路径...]
  deepcopygen [选项] gen [路径...]
  deepcopygen [选项] dev [路径...]
  deepcopygen [选项] check [路径...]

命令:
  gen     执行代码生成（默认）
  dev     启动开发模式，监听文件变动自动生成
  check   只检查生成文件是否最新，不写入文件；过期时输出差异并返回 1

路径:
  支持 Go 包路径模式，如:
    ./...          递归扫描当前目录及子目录（默认）
    ./pkg/...      递归扫描指定目录
    ./models       只扫描 models 目录

选项:
`)
	flag.PrintDefaults()

	registry := plugin.Global()
	if len(registry.Generators()) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
		_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(registry))
	}

	_, _ = fmt.Fprintf(os.Stderr, `诊断:
  MDCFDCAT01234    类型声明了构造函数，但没有可以不带参数调用的
  MHPWNPSDC43210   字段无法公开赋值（空白字段、未导出字段或 @InitOnly 字段）

示例:
  deepcopygen                               扫描当前目录（默认 ./...）
  deepcopygen -v ./models/...               详细模式扫描 models 目录
  deepcopygen -marker ./deepcopy ./...      同时输出标记声明
  deepcopygen -json ./...                   以 JSON 行输出诊断
  deepcopygen -tags integration ./...       使用构建标签加载包
  deepcopygen check ./...                   CI 中检查生成文件是否最新
  deepcopygen dev ./...                     开发模式，监听文件变动
`)
}
