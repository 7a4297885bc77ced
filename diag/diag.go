// Package diag 定义生成过程中的诊断信息
// 诊断只负责描述问题，不中断生成；是否视为构建失败由宿主决定
package diag

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"
	"sync"
)

// Severity 诊断严重程度
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Label 返回用于终端输出的中文标签
func (s Severity) Label() string {
	switch s {
	case SeverityError:
		return "错误"
	case SeverityWarning:
		return "警告"
	case SeverityInfo:
		return "提示"
	default:
		return "未知"
	}
}

// Descriptor 诊断描述符，同一类问题共用一个描述符
type Descriptor struct {
	ID            string   // 稳定的诊断编号
	Title         string   // 简短标题
	MessageFormat string   // fmt 格式的消息模板
	Category      string   // 分类
	Severity      Severity // 默认严重程度
	Description   string   // 详细说明
}

// Diagnostic 单条诊断
type Diagnostic struct {
	Descriptor *Descriptor
	Pos        token.Position // 零值表示没有源码位置
	Args       []any
}

// New 创建诊断
func New(desc *Descriptor, pos token.Position, args ...any) Diagnostic {
	return Diagnostic{Descriptor: desc, Pos: pos, Args: args}
}

// Message 返回格式化后的消息
func (d Diagnostic) Message() string {
	return fmt.Sprintf(d.Descriptor.MessageFormat, d.Args...)
}

// Severity 返回诊断的严重程度
func (d Diagnostic) Severity() Severity {
	return d.Descriptor.Severity
}

// HasLocation 是否带有源码位置
func (d Diagnostic) HasLocation() bool {
	return d.Pos.IsValid()
}

// Location 返回 file:line:col 形式的位置，没有位置时返回空字符串
func (d Diagnostic) Location() string {
	if !d.HasLocation() {
		return ""
	}
	return d.Pos.String()
}

func (d Diagnostic) String() string {
	if loc := d.Location(); loc != "" {
		return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity(), d.Descriptor.ID, d.Message())
	}
	return fmt.Sprintf("%s %s: %s", d.Severity(), d.Descriptor.ID, d.Message())
}

// Reporter 诊断接收方
type Reporter interface {
	Report(d Diagnostic)
}

// Bag 并发安全的诊断收集器，保持上报顺序
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Report(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

// Diagnostics 返回已收集诊断的副本
func (b *Bag) Diagnostics() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// ErrorCount 返回错误级别的诊断数量
func (b *Bag) ErrorCount() int {
	return CountErrors(b.Diagnostics())
}

// CountErrors 统计错误级别的诊断数量
func CountErrors(ds []Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.Severity() == SeverityError {
			n++
		}
	}
	return n
}

// SortByPosition 按文件、行、列稳定排序，没有位置的排在最后
func SortByPosition(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		if a.HasLocation() != b.HasLocation() {
			if a.HasLocation() {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})
}
