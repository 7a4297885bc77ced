package plugin

import (
	"bufio"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段：快速文本匹配，找出可能包含注解的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	workers int
	verbose bool

	// 注解过滤器（可选）
	annotationFilter []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) {
		s.verbose = v
	}
}

func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// quickMatchRegex 快速匹配注解的正则
// 匹配 @Name 或 @Name(...) 模式
var quickMatchRegex = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)

// generatedSuffixes 生成文件的后缀，扫描和监听时跳过
var generatedSuffixes = []string{"_deepcopy.go", "_marker.go"}

// IsGeneratedFile 检查是否是生成的文件或测试文件
func IsGeneratedFile(filePath string) bool {
	base := filepath.Base(filePath)
	if strings.HasSuffix(base, "_test.go") {
		return true
	}
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// IsIgnoredDir 与 go 工具链一致，跳过隐藏目录、_ 开头的目录、vendor 和 testdata
func IsIgnoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// Scan 扫描指定路径
// 支持: ./... ./pkg/... ./pkg /abs/path/...
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	// 收集所有文件
	allFiles, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	if len(allFiles) == 0 {
		return &ScanResult{}, nil
	}

	// ========== 第一阶段：快速匹配 ==========
	matchedFiles := s.quickMatch(ctx, allFiles)
	if len(matchedFiles) == 0 {
		return &ScanResult{}, ctx.Err()
	}

	// ========== 第二阶段：AST 解析 ==========
	result := s.parseFiles(ctx, matchedFiles)
	return result, ctx.Err()
}

// runWorkers 用固定数量的工作者并行处理文件
func (s *Scanner) runWorkers(ctx context.Context, files []string, fn func(file string)) {
	fileCh := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileCh {
				fn(file)
			}
		}()
	}

	// 发送文件
send:
	for _, file := range files {
		select {
		case <-ctx.Done():
			break send
		case fileCh <- file:
		}
	}
	close(fileCh)
	wg.Wait()
}

// quickMatch 第一阶段：快速文本匹配
// 并行读取文件，检查是否包含 @xxx 模式
func (s *Scanner) quickMatch(ctx context.Context, files []string) []string {
	var (
		mu      sync.Mutex
		matched []string
	)
	s.runWorkers(ctx, files, func(file string) {
		ok, err := s.QuickMatchFile(file)
		if err != nil {
			if s.verbose {
				fmt.Printf("读取文件失败 %s: %v\n", file, err)
			}
			return
		}
		if !ok {
			return
		}
		mu.Lock()
		matched = append(matched, file)
		mu.Unlock()
	})
	return matched
}

// QuickMatchFile 快速检查文件的注释中是否包含已注册的注解
// 用于 dev 模式判断文件是否需要触发代码生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// 只检查注释行
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}

		// 查找 @xxx 模式
		for _, match := range quickMatchRegex.FindAllStringSubmatch(line, -1) {
			if len(match) < 2 {
				continue
			}
			// 如果有过滤器，检查是否匹配
			if len(s.annotationFilter) == 0 {
				return true, nil
			}
			for _, filter := range s.annotationFilter {
				if match[1] == filter {
					return true, nil
				}
			}
		}
	}

	return false, scanner.Err()
}

// parseFiles 第二阶段：AST 解析
func (s *Scanner) parseFiles(ctx context.Context, files []string) *ScanResult {
	var mu sync.Mutex
	result := &ScanResult{}

	s.runWorkers(ctx, files, func(file string) {
		structs, types, err := s.parseFile(file)
		if err != nil {
			if s.verbose {
				fmt.Printf("解析文件失败 %s: %v\n", file, err)
			}
			return
		}
		mu.Lock()
		result.Structs = append(result.Structs, structs...)
		result.Types = append(result.Types, types...)
		mu.Unlock()
	})

	result.sort()
	return result
}

// parseFile AST 解析单个文件，只关心类型声明
func (s *Scanner) parseFile(filePath string) (structs, types []*AnnotatedTarget, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}

	packageName := file.Name.Name
	for _, decl := range file.Decls {
		d, ok := decl.(*ast.GenDecl)
		if !ok || d.Tok != token.TYPE {
			continue
		}
		for _, spec := range d.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			at := s.parseTypeSpec(filePath, packageName, d, typeSpec)
			if at == nil {
				continue
			}
			if at.Target.Kind == TargetStruct {
				structs = append(structs, at)
			} else {
				types = append(types, at)
			}
		}
	}
	return structs, types, nil
}

// parseTypeSpec 解析单个类型声明的注解
// 文档注释优先取 TypeSpec 上的，单个未加括号的声明取 GenDecl 上的
func (s *Scanner) parseTypeSpec(filePath, packageName string, decl *ast.GenDecl, spec *ast.TypeSpec) *AnnotatedTarget {
	doc := spec.Doc
	if doc == nil && !decl.Lparen.IsValid() {
		doc = decl.Doc
	}

	annotations := ParseAnnotations(doc.Text())
	if len(s.annotationFilter) > 0 {
		annotations = FilterByNames(annotations, s.annotationFilter...)
	}
	if len(annotations) == 0 {
		return nil
	}

	kind := TargetType
	if _, ok := spec.Type.(*ast.StructType); ok {
		kind = TargetStruct
	}

	return &AnnotatedTarget{
		Target: &Target{
			Kind:        kind,
			Name:        spec.Name.Name,
			PackageName: packageName,
			FilePath:    filePath,
			Position:    spec.Pos(),
			Node:        spec,
		},
		Annotations: annotations,
	}
}

// collectFiles 收集所有需要扫描的文件
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		if recursive {
			pattern = strings.TrimSuffix(pattern, "/...")
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			err := filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if d.IsDir() {
					if path == absPath {
						return nil
					}
					name := d.Name()
					if !recursive || IsIgnoredDir(name) {
						return filepath.SkipDir
					}
					return nil
				}

				if strings.HasSuffix(path, ".go") && !IsGeneratedFile(path) && !seen[path] {
					seen[path] = true
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if strings.HasSuffix(absPath, ".go") {
			if !seen[absPath] {
				seen[absPath] = true
				files = append(files, absPath)
			}
		}
	}

	return files, nil
}
