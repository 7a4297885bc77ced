package deepcopygen

import (
	"go/token"
	"testing"

	"github.com/donutnomad/deepcopygen/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func public() *Accessor { return &Accessor{Public: true} }

func studentDecl() *TypeDecl {
	return &TypeDecl{
		Name:    "StudentDto",
		Package: "model",
		Pos:     token.Position{Filename: "model.go", Line: 5, Column: 6},
		Properties: []Property{
			{Name: "FirstName", Type: "string", Setter: public(), Pos: token.Position{Filename: "model.go", Line: 6, Column: 2}},
			{Name: "LastName", Type: "string", Setter: public(), Pos: token.Position{Filename: "model.go", Line: 7, Column: 2}},
			{Name: "Age", Type: "int", Setter: public(), Pos: token.Position{Filename: "model.go", Line: 8, Column: 2}},
			{Name: "CourseNumber", Type: "int", Setter: public(), Pos: token.Position{Filename: "model.go", Line: 9, Column: 2}},
		},
	}
}

func TestValidateClean(t *testing.T) {
	tests := []struct {
		name  string
		ctors []Constructor
	}{
		{name: "没有构造函数", ctors: nil},
		{name: "无参构造函数", ctors: []Constructor{{Name: "NewStudentDto", ReturnsPointer: true}}},
		{name: "可变参数构造函数", ctors: []Constructor{{Name: "NewStudentDto", Params: 1, Variadic: true}}},
		{name: "多个构造函数其中一个无参", ctors: []Constructor{
			{Name: "NewStudentDto", Params: 2},
			{Name: "NewStudentDtoEmpty"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := studentDecl()
			decl.Constructors = tt.ctors
			bag := diag.NewBag()
			Validate(decl, bag)
			assert.Zero(t, bag.Len())
		})
	}
}

func TestValidateMissingDefaultConstructor(t *testing.T) {
	decl := studentDecl()
	decl.Constructors = []Constructor{
		{Name: "NewStudentDto", Params: 2},
		{Name: "NewStudentDtoFrom", Params: 2, Variadic: true},
	}

	bag := diag.NewBag()
	Validate(decl, bag)

	ds := bag.Diagnostics()
	require.Len(t, ds, 1)
	assert.Same(t, MissingDefaultConstructor, ds[0].Descriptor)
	assert.Equal(t, decl.Pos, ds[0].Pos)
	assert.Equal(t, "类型 'StudentDto' 必须提供无参构造函数才能生成深拷贝", ds[0].Message())
	assert.Equal(t, diag.SeverityError, ds[0].Severity())
	assert.Equal(t, "MDCFDCAT01234", ds[0].Descriptor.ID)
}

func TestValidatePropertiesOnePerViolation(t *testing.T) {
	decl := studentDecl()
	decl.Properties = append(decl.Properties,
		Property{Name: "_", Type: "int", Pos: token.Position{Filename: "model.go", Line: 10, Column: 2}},
		Property{Name: "ID", Type: "int", Setter: &Accessor{Public: true, InitOnly: true}, Pos: token.Position{Filename: "model.go", Line: 11, Column: 2}},
		Property{Name: "secret", Type: "string", Setter: &Accessor{}, Pos: token.Position{Filename: "model.go", Line: 12, Column: 2}},
	)

	bag := diag.NewBag()
	Validate(decl, bag)

	ds := bag.Diagnostics()
	require.Len(t, ds, 3)
	for _, d := range ds {
		assert.Same(t, MissingPublicSetter, d.Descriptor)
		assert.Equal(t, "MHPWNPSDC43210", d.Descriptor.ID)
	}
	assert.Equal(t, 10, ds[0].Pos.Line)
	assert.Equal(t, "类型 'StudentDto' 的字段 '_' 必须可公开赋值才能生成深拷贝（空白字段无法赋值）", ds[0].Message())
	assert.Equal(t, 11, ds[1].Pos.Line)
	assert.Contains(t, ds[1].Message(), "字段标记为 @InitOnly")
	assert.Equal(t, 12, ds[2].Pos.Line)
	assert.Contains(t, ds[2].Message(), "'secret'")
	assert.Contains(t, ds[2].Message(), "字段未导出")
}

func TestValidateBothChecksIndependent(t *testing.T) {
	decl := studentDecl()
	decl.Constructors = []Constructor{{Name: "NewStudentDto", Params: 1}}
	decl.Properties[0].Setter = nil

	bag := diag.NewBag()
	Validate(decl, bag)

	ds := bag.Diagnostics()
	require.Len(t, ds, 2)
	assert.Same(t, MissingDefaultConstructor, ds[0].Descriptor)
	assert.Same(t, MissingPublicSetter, ds[1].Descriptor)
}

func TestValidateNoLocation(t *testing.T) {
	decl := &TypeDecl{
		Name:       "Synthetic",
		Properties: []Property{{Name: "hidden", Setter: &Accessor{}}},
	}

	bag := diag.NewBag()
	Validate(decl, bag)

	ds := bag.Diagnostics()
	require.Len(t, ds, 1)
	assert.False(t, ds[0].HasLocation())
}

func TestConstructorRequiredParams(t *testing.T) {
	assert.Equal(t, 0, Constructor{}.RequiredParams())
	assert.Equal(t, 0, Constructor{Params: 1, Variadic: true}.RequiredParams())
	assert.Equal(t, 1, Constructor{Params: 2, Variadic: true}.RequiredParams())
	assert.False(t, Constructor{Params: 1}.IsDefault())
}
