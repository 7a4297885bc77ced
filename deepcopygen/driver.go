package deepcopygen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"runtime"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/deepcopygen/diag"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=host_mock_test.go -package=deepcopygen . Compilation,Output
//go:generate mockgen -destination=reporter_mock_test.go -package=deepcopygen github.com/donutnomad/deepcopygen/diag Reporter

// Compilation 一个已完成类型检查的编译单元
type Compilation interface {
	// Syntax 返回编译单元中的全部语法树
	Syntax() []*ast.File
	// Resolve 将类型声明解析为类型描述，无法解析时返回 false
	Resolve(spec *ast.TypeSpec) (*TypeDecl, bool)
}

// Stats 单次处理的统计
type Stats struct {
	Discovered  int // 通过语法过滤的声明数
	Resolved    int // 解析成功的类型数
	Skipped     int // 无法解析而跳过的声明数
	Generated   int // 生成的拷贝方法数
	Diagnostics int // 上报的诊断数
}

// Driver 串联过滤、解析、校验和生成
type Driver struct {
	workers   int
	verbose   bool
	markerPkg string
	onSkip    func(Candidate)

	initOnce sync.Once
}

// DriverOption 驱动选项
type DriverOption func(*Driver)

// WithDriverWorkers 设置并行处理类型的数量
func WithDriverWorkers(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithSkipHook 设置无法解析声明时的回调
func WithSkipHook(fn func(Candidate)) DriverOption {
	return func(d *Driver) {
		d.onSkip = fn
	}
}

// WithMarkerPackage 设置标记声明的包名
func WithMarkerPackage(name string) DriverOption {
	return func(d *Driver) {
		d.markerPkg = name
	}
}

// WithDriverVerbose 输出每个类型的解析结果
func WithDriverVerbose(v bool) DriverOption {
	return func(d *Driver) {
		d.verbose = v
	}
}

func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize 输出标记声明，只在第一次调用时生效
func (d *Driver) Initialize(out Output) error {
	var err error
	d.initOnce.Do(func() {
		var unit Unit
		unit, err = EmitMarker(d.markerPkg)
		if err == nil {
			out.AddSource(unit)
		}
	})
	return err
}

// result 单个候选的处理结果
type result struct {
	skipped bool
	diags   []diag.Diagnostic
	unit    Unit
}

// collector 收集单个类型的诊断
type collector []diag.Diagnostic

func (c *collector) Report(d diag.Diagnostic) {
	*c = append(*c, d)
}

// Process 处理一个编译单元
// 各类型并行处理，诊断、跳过回调和生成单元按声明顺序交给宿主
func (d *Driver) Process(ctx context.Context, comp Compilation, out Output, reporter diag.Reporter) (*Stats, error) {
	candidates := Discover(comp.Syntax())
	stats := &Stats{Discovered: len(candidates)}
	if len(candidates) == 0 {
		return stats, nil
	}

	results := make([]result, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decl, ok := comp.Resolve(c.Spec)
			if !ok {
				results[i].skipped = true
				return nil
			}
			if d.verbose {
				fmt.Printf("[deepcopygen] 解析 %s\n%s", decl.QualifiedName(), spew.Sdump(decl))
			}

			var diags collector
			Validate(decl, &diags)
			results[i].diags = diags

			unit, err := Synthesize(decl)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i].unit = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	for i, r := range results {
		if r.skipped {
			stats.Skipped++
			if d.onSkip != nil {
				d.onSkip(candidates[i])
			}
			continue
		}
		stats.Resolved++
		for _, dg := range r.diags {
			reporter.Report(dg)
		}
		stats.Diagnostics += len(r.diags)
		if errs[i] != nil {
			continue
		}
		out.AddSource(r.unit)
		stats.Generated++
	}

	return stats, errors.Join(errs...)
}
