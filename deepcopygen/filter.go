package deepcopygen

import (
	"go/ast"
	"go/token"

	"github.com/donutnomad/deepcopygen/plugin"
)

const (
	// MarkerName 标记注解名
	MarkerName = "DeepCopiable"
	// InitOnlyName 字段注解名，被标记的字段只允许在构造时赋值
	InitOnlyName = "InitOnly"
)

// Candidate 通过语法过滤的类型声明
type Candidate struct {
	File *ast.File
	Decl *ast.GenDecl
	Spec *ast.TypeSpec
}

// Name 返回声明的类型名
func (c Candidate) Name() string {
	return c.Spec.Name.Name
}

// IsCandidate 判断类型声明是否为带 @DeepCopiable 注解的结构体
// 只比较注解的书写名称，不确认注解的真实来源
func IsCandidate(decl *ast.GenDecl, spec *ast.TypeSpec) bool {
	if decl == nil || spec == nil || decl.Tok != token.TYPE {
		return false
	}
	if _, ok := spec.Type.(*ast.StructType); !ok {
		return false
	}
	return plugin.HasAnnotation(plugin.ParseAnnotations(specDoc(decl, spec).Text()), MarkerName)
}

// Discover 按源码顺序找出所有候选声明
func Discover(files []*ast.File) []Candidate {
	var out []Candidate
	for _, f := range files {
		for _, d := range f.Decls {
			decl, ok := d.(*ast.GenDecl)
			if !ok || decl.Tok != token.TYPE {
				continue
			}
			for _, s := range decl.Specs {
				spec, ok := s.(*ast.TypeSpec)
				if ok && IsCandidate(decl, spec) {
					out = append(out, Candidate{File: f, Decl: decl, Spec: spec})
				}
			}
		}
	}
	return out
}

// specDoc 返回类型声明的文档注释
// 与 go/doc 一致：单个未加括号的声明，注释挂在 GenDecl 上
func specDoc(decl *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if !decl.Lparen.IsValid() {
		return decl.Doc
	}
	return nil
}

// fieldAnnotations 返回字段注释中的注解名
func fieldAnnotations(field *ast.Field) []string {
	var names []string
	for _, cg := range []*ast.CommentGroup{field.Doc, field.Comment} {
		for _, ann := range plugin.ParseAnnotations(cg.Text()) {
			names = append(names, ann.Name)
		}
	}
	return names
}
