package deepcopygen

import (
	"go/token"

	"github.com/donutnomad/deepcopygen/diag"
)

// Validate 检查类型是否满足生成拷贝方法的前提条件
// 两项检查互不影响，每处违规上报一条诊断；结果不影响后续的代码生成
func Validate(decl *TypeDecl, r diag.Reporter) {
	checkDefaultConstructor(decl, r)
	checkSettableProperties(decl, r)
}

// checkDefaultConstructor 声明了构造函数时，至少要有一个不需要参数
func checkDefaultConstructor(decl *TypeDecl, r diag.Reporter) {
	if len(decl.Constructors) == 0 {
		return
	}
	if _, ok := decl.DefaultConstructor(); ok {
		return
	}
	r.Report(diag.New(MissingDefaultConstructor, decl.Pos, decl.Name))
}

// checkSettableProperties 每个字段都必须能在包外直接赋值
// 只检查类型自身声明的字段，不展开嵌入字段的提升字段
func checkSettableProperties(decl *TypeDecl, r diag.Reporter) {
	for _, p := range decl.Properties {
		reason := setterProblem(p.Setter)
		if reason == "" {
			continue
		}
		pos := p.Pos
		if !pos.IsValid() {
			pos = token.Position{}
		}
		r.Report(diag.New(MissingPublicSetter, pos, decl.Name, p.Name, reason))
	}
}

func setterProblem(s *Accessor) string {
	switch {
	case s == nil:
		return reasonNoSetter
	case s.InitOnly:
		return reasonInitOnly
	case !s.Public:
		return reasonUnexported
	default:
		return ""
	}
}
