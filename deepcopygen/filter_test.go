package deepcopygen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "model.go", src, parser.ParseComments)
	require.NoError(t, err)
	return f
}

func TestDiscover(t *testing.T) {
	f := parseFile(t, `package model

// StudentDto 学生
// @DeepCopiable
type StudentDto struct {
	FirstName string
}

// @DeepCopiable
type Copier interface{ DeepCopy() Copier }

// @DeepCopiable
type Alias = StudentDto

// @DeepCopiable
type Names []string

type Plain struct{}

// @deepcopiable
type Lower struct{}

// @DeepCopiableX
type Longer struct{}

type (
	// @DeepCopiable
	Grouped struct{}

	// @DeepCopiable @DeepCopiable
	Twice struct{}
)

// @DeepCopiable
type (
	Outer struct{}
)

// @DeepCopiable
var notAType = StudentDto{}

// @DeepCopiable
type Box[T any] struct {
	Value T
}
`)

	got := lo.Map(Discover([]*ast.File{f}), func(c Candidate, _ int) string { return c.Name() })
	assert.Equal(t, []string{"StudentDto", "Grouped", "Twice", "Box"}, got)
}

func TestDiscoverAcrossFiles(t *testing.T) {
	a := parseFile(t, "package model\n\n// @DeepCopiable\ntype A struct{}\n")
	b := parseFile(t, "package model\n\n// @DeepCopiable\ntype B struct{}\n")

	cs := Discover([]*ast.File{b, a})
	require.Len(t, cs, 2)
	assert.Equal(t, "B", cs[0].Name())
	assert.Same(t, b, cs[0].File)
	assert.Equal(t, "A", cs[1].Name())
}

func TestIsCandidateNil(t *testing.T) {
	assert.False(t, IsCandidate(nil, nil))
	assert.False(t, IsCandidate(&ast.GenDecl{Tok: token.TYPE}, nil))
}

func TestFieldAnnotations(t *testing.T) {
	f := parseFile(t, `package model

type T struct {
	// @InitOnly
	ID int
	Name string // @InitOnly
	Age  int
}
`)
	st := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType)
	anns := expandFieldAnnotations(st)
	require.Len(t, anns, 3)
	assert.Equal(t, []string{InitOnlyName}, anns[0])
	assert.Equal(t, []string{InitOnlyName}, anns[1])
	assert.Empty(t, anns[2])
}

func TestExpandFieldAnnotationsSharedLine(t *testing.T) {
	f := parseFile(t, `package model

type T struct {
	X, Y int // @InitOnly
	Base
}

type Base struct{}
`)
	st := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType)
	anns := expandFieldAnnotations(st)
	require.Len(t, anns, 3)
	assert.Equal(t, anns[0], anns[1])
	assert.Contains(t, anns[1], InitOnlyName)
	assert.Empty(t, anns[2])
}
