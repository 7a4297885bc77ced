package deepcopygen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// Loader 按目录加载并缓存编译单元
// 目录中 Go 文件内容不变时复用上一次的加载结果
type Loader struct {
	buildTags []string
	cache     *lru.Cache[string, *cachedPackage]
}

type cachedPackage struct {
	fingerprint string
	pkg         *Package
}

// LoaderOption 加载器选项
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	buildTags []string
	cacheSize int
}

// WithBuildTags 设置加载时使用的构建标签
func WithBuildTags(tags ...string) LoaderOption {
	return func(c *loaderConfig) {
		c.buildTags = lo.Filter(tags, func(t string, _ int) bool { return t != "" })
	}
}

// WithCacheSize 设置缓存的包数量
func WithCacheSize(n int) LoaderOption {
	return func(c *loaderConfig) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

func NewLoader(opts ...LoaderOption) (*Loader, error) {
	cfg := loaderConfig{cacheSize: 64}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New[string, *cachedPackage](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("创建包缓存失败: %w", err)
	}
	return &Loader{buildTags: cfg.buildTags, cache: cache}, nil
}

// Load 加载目录对应的包，类型错误不会中断加载
func (l *Loader) Load(ctx context.Context, dir string) (*Package, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fp, err := fingerprint(dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s 失败: %w", dir, err)
	}
	if cached, ok := l.cache.Get(dir); ok && cached.fingerprint == fp {
		return cached.pkg, nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
	}
	if len(l.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.buildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("加载包 %s 失败: %w", dir, err)
	}
	if len(pkgs) == 0 || pkgs[0].Types == nil || pkgs[0].TypesInfo == nil {
		return nil, fmt.Errorf("加载包 %s 失败: 没有可用的类型信息", dir)
	}
	pkg := &Package{pkg: pkgs[0], dir: dir}

	l.cache.Add(dir, &cachedPackage{fingerprint: fp, pkg: pkg})
	return pkg, nil
}

// fingerprint 计算目录中 Go 文件的内容摘要
func fingerprint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", err
		}
		h.Write([]byte(e.Name()))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Package 基于 go/packages 的编译单元
type Package struct {
	pkg *packages.Package
	dir string
}

func (p *Package) Syntax() []*ast.File {
	return p.pkg.Syntax
}

// Errors 返回加载过程中的错误，包括类型错误
func (p *Package) Errors() []packages.Error {
	return p.pkg.Errors
}

// Resolve 解析结构体类型声明
func (p *Package) Resolve(spec *ast.TypeSpec) (*TypeDecl, bool) {
	if spec == nil || spec.Name == nil {
		return nil, false
	}
	tn, ok := p.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil, false
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, false
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, false
	}
	astStruct, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, false
	}

	fset := p.pkg.Fset
	pos := fset.Position(spec.Name.Pos())
	decl := &TypeDecl{
		Name:    tn.Name(),
		Package: p.pkg.Types.Name(),
		PkgPath: p.pkg.Types.Path(),
		Dir:     lo.Ternary(pos.Filename != "", filepath.Dir(pos.Filename), p.dir),
		Pos:     pos,
	}

	for i := 0; i < named.TypeParams().Len(); i++ {
		decl.TypeParams = append(decl.TypeParams, named.TypeParams().At(i).Obj().Name())
	}

	fieldAnns := expandFieldAnnotations(astStruct)
	qualifier := types.RelativeTo(p.pkg.Types)
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		prop := Property{
			Name:     v.Name(),
			Type:     types.TypeString(v.Type(), qualifier),
			Embedded: v.Embedded(),
		}
		if v.Pos().IsValid() {
			prop.Pos = fset.Position(v.Pos())
		}
		if v.Name() != "_" {
			var anns []string
			if i < len(fieldAnns) {
				anns = fieldAnns[i]
			}
			prop.Setter = &Accessor{
				Public:   v.Exported(),
				InitOnly: slices.Contains(anns, InitOnlyName),
			}
		}
		decl.Properties = append(decl.Properties, prop)
	}

	decl.Constructors = p.constructors(tn)
	return decl, true
}

// expandFieldAnnotations 按 go/types 的字段顺序展开每个字段的注解
// 一行声明多个字段名时，每个字段名共用该行的注解
func expandFieldAnnotations(st *ast.StructType) [][]string {
	var out [][]string
	if st.Fields == nil {
		return out
	}
	for _, f := range st.Fields.List {
		anns := fieldAnnotations(f)
		n := max(len(f.Names), 1)
		for range n {
			out = append(out, anns)
		}
	}
	return out
}

// constructors 查找包作用域中名为 New<Type>... 且首个返回值为该类型或其指针的函数
func (p *Package) constructors(tn *types.TypeName) []Constructor {
	scope := p.pkg.Types.Scope()
	prefix := "New" + tn.Name()

	var out []Constructor
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Recv() != nil || sig.Results().Len() == 0 {
			continue
		}
		res := sig.Results().At(0).Type()
		ptr := false
		if pt, ok := res.(*types.Pointer); ok {
			res, ptr = pt.Elem(), true
		}
		rn, ok := res.(*types.Named)
		if !ok || rn.Origin().Obj() != tn || !instantiatedWithOwnParams(rn, sig) {
			continue
		}
		out = append(out, Constructor{
			Name:           name,
			Params:         sig.Params().Len(),
			Variadic:       sig.Variadic(),
			ReturnsPointer: ptr,
			Generic:        sig.TypeParams().Len() > 0,
		})
	}
	// scope.Names 已按名称排序
	return out
}

// instantiatedWithOwnParams 返回值的类型实参依次是构造函数自己的类型参数，且约束与类型声明一致
func instantiatedWithOwnParams(rn *types.Named, sig *types.Signature) bool {
	args, tparams := rn.TypeArgs(), sig.TypeParams()
	if args.Len() != tparams.Len() {
		return false
	}
	declared := rn.Origin().TypeParams()
	for i := 0; i < args.Len(); i++ {
		tp, ok := args.At(i).(*types.TypeParam)
		if !ok || tp != tparams.At(i) {
			return false
		}
		if !types.Identical(tp.Constraint(), declared.At(i).Constraint()) {
			return false
		}
	}
	return true
}

var _ Compilation = (*Package)(nil)
