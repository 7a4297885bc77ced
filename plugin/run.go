package plugin

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/donutnomad/deepcopygen/diag"
	"github.com/donutnomad/deepcopygen/internal/utils"
	"github.com/donutnomad/gg"
)

// GeneratedHeader 合并后文件的文件头
const GeneratedHeader = "Code generated by deepcopygen. DO NOT EDIT."

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Async    bool // 是否异步执行生成器
	Workers  int  // 扫描和生成的并行度，0 表示 CPU 核数
	DryRun   bool // 只生成不写入，结果放在 RunStats.Outputs

	Stdout  io.Writer // 诊断输出，默认 os.Stdout
	JSON    bool      // 诊断以 JSON 行输出
	Color   bool      // 诊断着色
	BaseDir string    // 诊断位置显示为相对该目录的路径
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration // 扫描耗时
	GenerateDuration time.Duration // 生成耗时
	TotalDuration    time.Duration // 总耗时
	TargetCount      int           // 目标数量
	FileCount        int           // 生成文件数量
	SkippedCount     int           // 生成器跳过的目标数量

	// Outputs 本轮生成的完整文件内容，key: 输出路径
	Outputs map[string][]byte

	// Diagnostics 所有生成器上报的诊断，按位置排序
	Diagnostics []diag.Diagnostic
}

// ErrorCount 返回错误级别的诊断数量
func (s *RunStats) ErrorCount() int {
	return diag.CountErrors(s.Diagnostics)
}

// Run 运行代码生成
// 1. 调用生成器的初始化钩子
// 2. 扫描指定路径的注解
// 3. 将目标分发给对应的生成器
// 4. 执行生成器
// 5. 合并同一文件的 gg 定义并写入文件
func Run(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	totalStart := time.Now()
	stats := &RunStats{Outputs: make(map[string][]byte)}

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}

	// 获取所有已注册的注解
	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, fmt.Errorf("没有已注册的生成器")
	}

	var allErrors []error
	var results []genResultItem

	// 初始化钩子在扫描前执行，与是否存在目标无关
	for _, gen := range registry.Generators() {
		initializer, ok := gen.(Initializer)
		if !ok {
			continue
		}
		res, err := initializer.Initialize(&InitContext{Context: ctx, Verbose: opts.Verbose})
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("生成器 %s 初始化失败: %w", gen.Name(), err))
			continue
		}
		if res != nil {
			results = append(results, genResultItem{genName: gen.Name(), result: res})
		}
	}

	// 扫描
	scanStart := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(annotations...),
		WithScannerVerbose(opts.Verbose),
		WithWorkers(opts.Workers),
	)
	result, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	stats.ScanDuration = time.Since(scanStart)
	stats.TargetCount = len(result.All())

	dispatch := registry.Dispatch(result)
	if opts.Verbose {
		if stats.TargetCount == 0 {
			fmt.Println("没有找到任何带注解的目标")
		} else {
			fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
		}
		for _, t := range dispatch.Unsupported {
			fmt.Printf("跳过 %s (%s): 注解不支持 %s 类型的目标\n", t.Target.Name, t.Target.FilePath, t.Target.Kind)
		}
	}

	generateStart := time.Now()

	// 执行生成器的函数
	executeGenerator := func(job Job) genResultItem {
		gen, genName := job.Generator, job.Generator.Name()
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (开始处理 %d 个目标)\n", genName, len(job.Targets))
		}

		genCtx := &GenerateContext{
			Context: ctx,
			Targets: job.Targets,
			Workers: opts.Workers,
			Verbose: opts.Verbose,
		}

		nt1 := time.Now()
		genResult, err := gen.Generate(genCtx)
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (耗时: %v)\n", genName, time.Since(nt1))
		}

		return genResultItem{genName: genName, result: genResult, err: err}
	}

	items := make([]genResultItem, len(dispatch.Jobs))
	if opts.Async {
		// 异步执行每个生成器，结果按优先级顺序放回
		var wg sync.WaitGroup
		for i, job := range dispatch.Jobs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				items[i] = executeGenerator(job)
			}()
		}
		wg.Wait()
	} else {
		for i, job := range dispatch.Jobs {
			items[i] = executeGenerator(job)
		}
	}
	results = append(results, items...)

	// 收集所有 gg 定义，按输出路径分组
	// key: 输出文件路径, value: []*gg.Generator (多个生成器可能输出到同一文件)
	fileDefinitions := make(map[string][]*gg.Generator)
	fileGenNames := make(map[string][]string)
	var paths []string
	addDefinition := func(path, genName string, def *gg.Generator) {
		if _, ok := fileDefinitions[path]; !ok {
			paths = append(paths, path)
		}
		fileDefinitions[path] = append(fileDefinitions[path], def)
		fileGenNames[path] = append(fileGenNames[path], genName)
	}

	for _, item := range results {
		if item.err != nil {
			allErrors = append(allErrors, fmt.Errorf("生成器 %s 执行失败: %w", item.genName, item.err))
			continue
		}
		genResult := item.result
		if genResult == nil {
			continue
		}

		for _, path := range sortedKeys(genResult.Definitions) {
			addDefinition(path, item.genName, genResult.Definitions[path])
		}

		// 收集原始字节输出，转换为 gg.Generator 后加入 fileDefinitions
		for _, path := range sortedKeys(genResult.RawOutputs) {
			parsedGen, err := ParseSourceToGG(genResult.RawOutputs[path])
			if err != nil {
				allErrors = append(allErrors, fmt.Errorf("解析原始输出 %s 失败: %w", path, err))
				continue
			}
			addDefinition(path, item.genName, parsedGen)
		}

		stats.Diagnostics = append(stats.Diagnostics, genResult.Diagnostics...)
		stats.SkippedCount += genResult.Skipped
		allErrors = append(allErrors, genResult.Errors...)
	}

	// 合并同一文件的定义并写入
	for _, path := range paths {
		merged, err := mergeDefinitionsWithSeparator(fileDefinitions[path], fileGenNames[path])
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("合并文件 %s 的定义失败: %w", path, err))
			continue
		}

		content, err := utils.FormatSource(path, merged.Bytes())
		if err != nil {
			allErrors = append(allErrors, err)
			continue
		}
		stats.Outputs[path] = content

		if opts.DryRun {
			continue
		}
		if err := utils.WriteFormat(path, content); err != nil {
			allErrors = append(allErrors, fmt.Errorf("写入文件 %s 失败: %w", path, err))
		} else {
			stats.FileCount++
			fmt.Printf("生成文件: %s\n", path)
		}
	}

	stats.GenerateDuration = time.Since(generateStart)
	stats.TotalDuration = time.Since(totalStart)

	diag.SortByPosition(stats.Diagnostics)
	if err := printDiagnostics(opts, stats.Diagnostics); err != nil {
		allErrors = append(allErrors, err)
	}

	if len(allErrors) > 0 {
		for _, e := range allErrors {
			fmt.Fprintf(os.Stderr, "错误: %v\n", e)
		}
		return stats, fmt.Errorf("生成过程中出现 %d 个错误", len(allErrors))
	}
	if n := stats.ErrorCount(); n > 0 {
		return stats, fmt.Errorf("生成过程中出现 %d 个错误诊断", n)
	}

	return stats, nil
}

// genResultItem 存储单个生成器的执行结果
type genResultItem struct {
	genName string
	result  *GenerateResult
	err     error
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// printDiagnostics 输出诊断
func printDiagnostics(opts *RunOptions, ds []diag.Diagnostic) error {
	if len(ds) == 0 {
		return nil
	}
	w := opts.Stdout
	if w == nil {
		w = os.Stdout
	}
	if opts.JSON {
		return diag.WriteJSON(w, ds)
	}
	return diag.Render(w, ds, diag.RenderOptions{Color: opts.Color, BaseDir: opts.BaseDir})
}

// mergeDefinitionsWithSeparator 合并多个 gg.Generator 定义到一个文件
// 多个生成器输出到同一文件时，在每段前添加分隔符
func mergeDefinitionsWithSeparator(definitions []*gg.Generator, genNames []string) (*gg.Generator, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("没有定义需要合并")
	}

	// 创建新的 generator 用于合并
	merged := gg.New()
	merged.SetHeader(GeneratedHeader)

	// 收集包名
	var pkgName string
	for _, def := range definitions {
		if def.PackageName() != "" {
			if pkgName == "" {
				pkgName = def.PackageName()
			} else if pkgName != def.PackageName() {
				return nil, fmt.Errorf("包名不一致: %s vs %s", pkgName, def.PackageName())
			}
		}
	}
	if pkgName != "" {
		merged.SetPackage(pkgName)
	}

	// 直接使用 Merge 方法，它会正确处理 imports 和别名
	for i, def := range definitions {
		if len(definitions) > 1 {
			genName := "unknown"
			if i < len(genNames) {
				genName = genNames[i]
			}
			merged.Body().AddLine()
			merged.Body().AddString(fmt.Sprintf("// ================ %s ================", genName))
			merged.Body().AddLine()
		}

		merged.Merge(def)
	}

	return merged, nil
}
