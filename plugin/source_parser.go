package plugin

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"github.com/donutnomad/gg"
)

// ParseSourceToGG 将 Go 源代码解析并转换为 gg.Generator
// 直接输出完整源码的生成器借此与其他 gg 定义合并到同一文件
// 文件头注释会被丢弃，由合并时统一设置
func ParseSourceToGG(source []byte) (*gg.Generator, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析源代码失败: %w", err)
	}

	gen := gg.New()

	// 设置包名
	gen.SetPackage(file.Name.Name)

	// 提取并添加 imports
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if imp.Name != nil && imp.Name.Name != "" && imp.Name.Name != "_" {
			// 有别名的 import
			if imp.Name.Name == "." {
				// dot import - 暂不支持，跳过
				continue
			}
			gen.PAlias(importPath, imp.Name.Name)
		} else {
			gen.P(importPath)
		}
	}

	// 提取代码体（除了 package 和 import 之外的所有内容）
	body, err := extractBody(fset, file)
	if err != nil {
		return nil, fmt.Errorf("提取代码体失败: %w", err)
	}

	if body != "" {
		gen.Body().Append(gg.String("%s", body))
	}

	return gen, nil
}

// extractBody 提取声明部分，保留文档注释和函数体内的注释
func extractBody(fset *token.FileSet, file *ast.File) (string, error) {
	var parts []string

	for _, decl := range file.Decls {
		// 跳过 import 声明
		if genDecl, ok := decl.(*ast.GenDecl); ok && genDecl.Tok == token.IMPORT {
			continue
		}

		var buf bytes.Buffer
		node := &printer.CommentedNode{Node: decl, Comments: file.Comments}
		if err := printer.Fprint(&buf, fset, node); err != nil {
			return "", err
		}
		parts = append(parts, buf.String())
	}

	return strings.Join(parts, "\n\n"), nil
}
