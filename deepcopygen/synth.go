package deepcopygen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/deepcopygen/internal/utils"
	"github.com/donutnomad/gg"
	"github.com/samber/lo"
)

const (
	// GeneratedHeader 生成文件头
	GeneratedHeader = "Code generated by deepcopygen. DO NOT EDIT."

	copyUnitSuffix   = "_deepcopy.go"
	markerUnitSuffix = "_marker.go"
)

// UnitName 返回类型拷贝方法所在文件名，只取决于类型的简单名称
func UnitName(typeName string) string {
	return utils.ToSnakeCase(typeName) + copyUnitSuffix
}

// MarkerUnitName 返回标记声明文件名
func MarkerUnitName() string {
	return utils.ToSnakeCase(MarkerName) + markerUnitSuffix
}

// Synthesize 为类型生成 DeepCopy 方法
// 不再检查前提条件，违规类型同样生成代码，由诊断负责报告
func Synthesize(decl *TypeDecl) (Unit, error) {
	name := UnitName(decl.Name)
	// 接收者不能遮蔽类型名或类型参数
	recv := utils.ReceiverName(decl.Name, append([]string{decl.Name}, decl.TypeParams...)...)
	typ := decl.Name + typeArgs(decl.TypeParams)

	gen := gg.New()
	gen.SetHeader(GeneratedHeader)
	gen.SetPackage(decl.Package)

	body := gen.Body()
	body.Append(gg.S("// DeepCopy 返回 %s 的副本", decl.Name))
	body.Append(gg.String("// 只复制字段本身，指针、切片、map 等引用类型的字段与原对象共享底层数据"))
	body.NewFunction("DeepCopy").
		WithReceiver(recv, "*"+typ).
		AddResult("", "*"+typ).
		AddBody(copyBody(decl, recv, typ)...)

	src, err := utils.FormatSource(name, gen.Bytes())
	if err != nil {
		return Unit{}, fmt.Errorf("生成 %s.DeepCopy 失败: %w", decl.Name, err)
	}

	return Unit{
		Name:    name,
		Kind:    UnitCopy,
		Package: decl.Package,
		Dir:     decl.Dir,
		Source:  src,
	}, nil
}

// copyBody 生成方法体
// 有无参构造函数时先调用构造函数再逐个赋值，否则使用复合字面量
func copyBody(decl *TypeDecl, recv, typ string) []any {
	stmts := []any{
		gg.If(gg.S("%s == nil", recv)).AddBody(gg.Return(gg.S("nil"))),
	}

	// 空白字段无法通过名称访问
	props := lo.Filter(decl.Properties, func(p Property, _ int) bool {
		return p.Name != "_"
	})

	ctor, ok := decl.DefaultConstructor()
	if !ok {
		if len(props) == 0 {
			return append(stmts, gg.Return(gg.S("&%s{}", typ)))
		}
		var lit strings.Builder
		fmt.Fprintf(&lit, "&%s{\n", typ)
		for _, p := range props {
			fmt.Fprintf(&lit, "%s: %s.%s,\n", p.Name, recv, p.Name)
		}
		lit.WriteString("}")
		return append(stmts, gg.Return(gg.S("%s", lit.String())))
	}

	out := lo.Ternary(recv == "out", "dst", "out")
	call := ctor.Name + lo.Ternary(ctor.Generic, typeArgs(decl.TypeParams), "") + "()"
	if ctor.ReturnsPointer {
		stmts = append(stmts, gg.S("%s := %s", out, call))
	} else {
		val := lo.Ternary(recv == "v", "val", "v")
		stmts = append(stmts,
			gg.S("%s := %s", val, call),
			gg.S("%s := &%s", out, val),
		)
	}
	for _, p := range props {
		stmts = append(stmts, gg.S("%s.%s = %s.%s", out, p.Name, recv, p.Name))
	}
	return append(stmts, gg.Return(gg.S("%s", out)))
}

func typeArgs(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "[" + strings.Join(params, ", ") + "]"
}
