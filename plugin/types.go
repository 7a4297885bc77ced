package plugin

import (
	"cmp"
	"context"
	"go/ast"
	"go/token"
	"path/filepath"
	"slices"

	"github.com/donutnomad/deepcopygen/diag"
	"github.com/donutnomad/gg"
)

// TargetKind 表示注解目标的类型
type TargetKind int

const (
	TargetStruct TargetKind = iota + 1 // 结构体
	TargetType                         // 其他具名类型（接口、基础类型、别名等）
)

func (k TargetKind) String() string {
	switch k {
	case TargetStruct:
		return "struct"
	case TargetType:
		return "type"
	default:
		return "unknown"
	}
}

// Annotation 表示解析后的注解
type Annotation struct {
	Name   string            // 注解名称，如 "DeepCopiable"
	Params map[string]string // 注解参数，如 key=`value`
	Raw    string            // 原始注解文本
}

// Target 表示注解的目标
type Target struct {
	Kind        TargetKind // 目标类型
	Name        string     // 类型名
	PackageName string     // 包名
	FilePath    string     // 文件路径
	Position    token.Pos  // 位置信息

	// AST 节点（可选，用于深度解析）
	Node ast.Node
}

// Dir 返回目标所在目录
func (t *Target) Dir() string {
	return filepath.Dir(t.FilePath)
}

// AnnotatedTarget 表示带注解的目标
type AnnotatedTarget struct {
	Target      *Target       // 目标信息
	Annotations []*Annotation // 注解列表
}

// ScanResult 表示扫描结果
type ScanResult struct {
	Structs []*AnnotatedTarget // 带注解的结构体
	Types   []*AnnotatedTarget // 带注解的其他类型
}

// All 返回所有带注解的目标
func (r *ScanResult) All() []*AnnotatedTarget {
	result := make([]*AnnotatedTarget, 0, len(r.Structs)+len(r.Types))
	result = append(result, r.Structs...)
	result = append(result, r.Types...)
	return result
}

// sort 按文件和位置排序，保证并行扫描的结果稳定
func (r *ScanResult) sort() {
	byPos := func(a, b *AnnotatedTarget) int {
		return cmp.Or(
			cmp.Compare(a.Target.FilePath, b.Target.FilePath),
			cmp.Compare(a.Target.Position, b.Target.Position),
		)
	}
	slices.SortFunc(r.Structs, byPos)
	slices.SortFunc(r.Types, byPos)
}

// GenerateContext 生成上下文，传递给 Generator
type GenerateContext struct {
	Context context.Context
	Targets []*AnnotatedTarget // 该 Generator 需要处理的目标
	Workers int                // 建议的并行度
	Verbose bool               // 详细输出
}

// InitContext 每轮生成开始前的上下文
type InitContext struct {
	Context context.Context
	Verbose bool
}

// GenerateResult 生成结果
// Generator 返回 gg 定义，由聚合器统一处理
type GenerateResult struct {
	// Definitions 是生成的 gg 定义
	// key: 输出文件路径（相对路径或绝对路径）
	// value: gg.Generator 定义
	Definitions map[string]*gg.Generator

	// RawOutputs 是完整的 Go 源码输出，写入前转换为 gg 定义参与合并
	// key: 输出文件路径
	RawOutputs map[string][]byte

	// Diagnostics 生成过程中发现的问题，不影响文件输出
	Diagnostics []diag.Diagnostic

	// Errors 错误列表
	Errors []error

	// Skipped 跳过的数量
	Skipped int
}

// NewGenerateResult 创建新的生成结果
func NewGenerateResult() *GenerateResult {
	return &GenerateResult{
		Definitions: make(map[string]*gg.Generator),
		RawOutputs:  make(map[string][]byte),
	}
}

// AddDefinition 添加 gg 定义
func (r *GenerateResult) AddDefinition(path string, gen *gg.Generator) {
	if r.Definitions == nil {
		r.Definitions = make(map[string]*gg.Generator)
	}
	r.Definitions[path] = gen
}

// AddRawOutput 添加原始源码输出
func (r *GenerateResult) AddRawOutput(path string, src []byte) {
	if r.RawOutputs == nil {
		r.RawOutputs = make(map[string][]byte)
	}
	r.RawOutputs[path] = src
}

// AddDiagnostics 添加诊断
func (r *GenerateResult) AddDiagnostics(ds ...diag.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, ds...)
}

// AddError 添加错误
func (r *GenerateResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}
