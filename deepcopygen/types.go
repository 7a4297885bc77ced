package deepcopygen

import (
	"go/token"
)

// TypeDecl 解析后的结构体类型描述，解析完成后不再修改
type TypeDecl struct {
	Name         string         // 简单类型名
	Package      string         // 包名
	PkgPath      string         // 包导入路径
	Dir          string         // 声明所在目录
	TypeParams   []string       // 类型参数名，按声明顺序
	Properties   []Property     // 字段，按声明顺序
	Constructors []Constructor  // New<Type> 构造函数，按名称排序
	Markers      []string       // 声明上的注解名
	Pos          token.Position // 类型名位置
}

// QualifiedName 返回带包路径的完整名称
func (d *TypeDecl) QualifiedName() string {
	if d.PkgPath == "" {
		return d.Name
	}
	return d.PkgPath + "." + d.Name
}

// DefaultConstructor 返回第一个无需参数即可调用的构造函数
func (d *TypeDecl) DefaultConstructor() (Constructor, bool) {
	for _, c := range d.Constructors {
		if c.IsDefault() {
			return c, true
		}
	}
	return Constructor{}, false
}

// Property 结构体字段描述
type Property struct {
	Name     string
	Type     string // 相对于所在包的类型表示
	Embedded bool
	Setter   *Accessor // nil 表示字段无法赋值
	Pos      token.Position
}

// Accessor 字段赋值入口
type Accessor struct {
	Public   bool // 包外可赋值
	InitOnly bool // 仅允许构造时赋值（@InitOnly）
}

// Constructor 构造函数描述
type Constructor struct {
	Name           string
	Params         int
	Variadic       bool
	ReturnsPointer bool
	Generic        bool // 带类型参数，调用时需要显式实例化
}

// RequiredParams 返回调用时必须提供的参数个数
func (c Constructor) RequiredParams() int {
	if c.Variadic {
		return c.Params - 1
	}
	return c.Params
}

// IsDefault 是否可以不带参数调用
func (c Constructor) IsDefault() bool {
	return c.RequiredParams() == 0
}

// UnitKind 生成单元类型
type UnitKind int

const (
	UnitMarker UnitKind = iota + 1 // 标记声明
	UnitCopy                       // 拷贝方法
)

func (k UnitKind) String() string {
	switch k {
	case UnitMarker:
		return "marker"
	case UnitCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Unit 一个完整的生成文件
type Unit struct {
	Name    string // 文件名，同一轮生成内唯一
	Kind    UnitKind
	Package string
	Dir     string // 输出目录，标记声明为空
	Source  []byte
}
