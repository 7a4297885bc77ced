package deepcopygen

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/donutnomad/deepcopygen/internal/utils"
)

var markerTemplate = template.Must(template.New("marker").Funcs(sprig.TxtFuncMap()).Parse(`// {{ .Header | trim }}

package {{ .Package }}

// {{ .Name }} 由生成的 DeepCopy 方法实现
//
// 在结构体声明的文档注释中添加 @{{ .Name }} 即可生成 DeepCopy 方法：
//
//	// @{{ .Name }}
//	type StudentDto struct { ... }
//
// 注解只能用于结构体声明，不接受参数；同一声明上重复书写与写一次相同。
{{- range .Notes }}
// {{ . | trim }}
{{- end }}
type {{ .Name }}[T any] interface {
	DeepCopy() T
}
`))

// EmitMarker 生成标记声明文件
// 内容与是否有类型使用该注解无关
func EmitMarker(pkg string) (Unit, error) {
	if pkg == "" {
		pkg = "deepcopy"
	}

	var buf bytes.Buffer
	err := markerTemplate.Execute(&buf, map[string]any{
		"Header":  GeneratedHeader,
		"Package": pkg,
		"Name":    MarkerName,
		"Notes": []string{
			"字段注释中添加 @" + InitOnlyName + " 表示该字段只允许在构造时赋值。",
		},
	})
	if err != nil {
		return Unit{}, fmt.Errorf("渲染标记声明失败: %w", err)
	}

	name := MarkerUnitName()
	src, err := utils.FormatSource(name, buf.Bytes())
	if err != nil {
		return Unit{}, err
	}
	return Unit{Name: name, Kind: UnitMarker, Package: pkg, Source: src}, nil
}

// MarkerPackageName 确定标记声明所在目录的包名
// 优先读取目录中已有 Go 文件的包名，否则使用目录名
func MarkerPackageName(dir string) string {
	entries, err := os.ReadDir(dir)
	if err == nil {
		fset := token.NewFileSet()
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
			if err == nil {
				return f.Name.Name
			}
		}
	}

	base := filepath.Base(filepath.Clean(dir))
	base = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, strings.ToLower(base))
	if base == "" || base == "_" || base == string(filepath.Separator) || !token.IsIdentifier(base) {
		return "deepcopy"
	}
	return base
}
