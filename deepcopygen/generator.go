package deepcopygen

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/donutnomad/deepcopygen/diag"
	"github.com/donutnomad/deepcopygen/plugin"
	"github.com/samber/lo"
)

const generatorName = "deepcopygen"

// DeepCopyGenerator 实现 plugin.Generator 和 plugin.Initializer 接口
type DeepCopyGenerator struct {
	plugin.BaseGenerator

	markerDir  string
	loaderOpts []LoaderOption

	loaderOnce sync.Once
	loader     *Loader
	loaderErr  error
}

// Option 生成器选项
type Option func(*DeepCopyGenerator)

// WithMarkerDir 设置标记声明的输出目录，为空时不输出
func WithMarkerDir(dir string) Option {
	return func(g *DeepCopyGenerator) {
		g.markerDir = dir
	}
}

// WithLoaderOptions 设置加载包时的选项
func WithLoaderOptions(opts ...LoaderOption) Option {
	return func(g *DeepCopyGenerator) {
		g.loaderOpts = append(g.loaderOpts, opts...)
	}
}

func NewDeepCopyGenerator(opts ...Option) *DeepCopyGenerator {
	gen := &DeepCopyGenerator{
		BaseGenerator: *plugin.NewBaseGenerator(
			generatorName,
			[]string{MarkerName},
			[]plugin.TargetKind{plugin.TargetStruct},
		),
	}
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

// Usage 帮助文本中的补充说明
func (g *DeepCopyGenerator) Usage() []string {
	return []string{
		"类型声明了 New<类型名> 构造函数时，其中必须有一个可以不带参数调用",
		"字段注释中的 @" + InitOnlyName + " 表示该字段只能在构造时赋值，无法生成深拷贝",
		"输出文件: <类型名蛇形>_deepcopy.go，与类型位于同一目录",
	}
}

func (g *DeepCopyGenerator) getLoader() (*Loader, error) {
	g.loaderOnce.Do(func() {
		g.loader, g.loaderErr = NewLoader(g.loaderOpts...)
	})
	return g.loader, g.loaderErr
}

// Initialize 每轮生成前输出标记声明
func (g *DeepCopyGenerator) Initialize(ctx *plugin.InitContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()
	if g.markerDir == "" {
		if ctx.Verbose {
			fmt.Printf("[%s] 未指定 -marker，跳过标记声明\n", generatorName)
		}
		return result, nil
	}

	driver := NewDriver(WithMarkerPackage(MarkerPackageName(g.markerDir)))
	set := NewSourceSet()
	if err := driver.Initialize(set); err != nil {
		return nil, fmt.Errorf("生成标记声明失败: %w", err)
	}
	for _, unit := range set.Units() {
		result.AddRawOutput(filepath.Join(g.markerDir, unit.Name), unit.Source)
	}
	return result, nil
}

// Generate 按包处理扫描到的目标
func (g *DeepCopyGenerator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()

	if len(ctx.Targets) == 0 {
		return result, nil
	}

	loader, err := g.getLoader()
	if err != nil {
		return nil, err
	}

	if ctx.Verbose {
		for _, at := range ctx.Targets {
			if ann := plugin.GetAnnotation(at.Annotations, MarkerName); ann != nil && ann.HasParams() {
				fmt.Printf("[%s] %s: @%s 不接受参数，已忽略 %s\n", generatorName, at.Target.Name, MarkerName, ann.Raw)
			}
		}
	}

	dirs := lo.Uniq(lo.Map(ctx.Targets, func(at *plugin.AnnotatedTarget, _ int) string {
		return at.Target.Dir()
	}))
	slices.Sort(dirs)

	for _, dir := range dirs {
		pkg, err := loader.Load(ctx.Context, dir)
		if err != nil {
			result.AddError(err)
			continue
		}
		if ctx.Verbose {
			for _, e := range pkg.Errors() {
				fmt.Printf("[%s] 类型检查: %v\n", generatorName, e)
			}
		}

		driver := NewDriver(
			WithDriverWorkers(ctx.Workers),
			WithDriverVerbose(ctx.Verbose),
			WithSkipHook(func(c Candidate) {
				if ctx.Verbose {
					fmt.Printf("[%s] 无法解析类型 %s，已跳过\n", generatorName, c.Name())
				}
			}),
		)

		set := NewSourceSet()
		bag := diag.NewBag()
		stats, err := driver.Process(ctx.Context, pkg, set, bag)
		if err != nil {
			result.AddError(fmt.Errorf("处理包 %s 失败: %w", dir, err))
		}
		if stats != nil {
			result.Skipped += stats.Skipped
			if ctx.Verbose {
				fmt.Printf("[%s] %s: 发现 %d 个类型，生成 %d 个，跳过 %d 个，诊断 %d 条\n",
					generatorName, dir, stats.Discovered, stats.Generated, stats.Skipped, stats.Diagnostics)
			}
		}

		for _, unit := range set.Units() {
			result.AddRawOutput(filepath.Join(dir, unit.Name), unit.Source)
		}
		result.AddDiagnostics(bag.Diagnostics()...)
	}

	return result, nil
}

var (
	_ plugin.Generator     = (*DeepCopyGenerator)(nil)
	_ plugin.Initializer   = (*DeepCopyGenerator)(nil)
	_ plugin.UsageProvider = (*DeepCopyGenerator)(nil)
)
