package plugin

import (
	"strings"
	"testing"
)

func TestParseSourceToGG(t *testing.T) {
	source := []byte(`// Code generated by deepcopygen. DO NOT EDIT.

package test

import (
	"fmt"
	"time"
)

type Student struct {
	Name    string
	Started time.Time
}

// DeepCopy 返回 Student 的深拷贝
func (s *Student) DeepCopy() *Student {
	if s == nil {
		return nil
	}
	// 逐字段赋值
	fmt.Println("copy")
	return &Student{Name: s.Name, Started: s.Started}
}
`)

	gen, err := ParseSourceToGG(source)
	if err != nil {
		t.Fatalf("ParseSourceToGG failed: %v", err)
	}

	if gen.PackageName() != "test" {
		t.Errorf("expected package name 'test', got '%s'", gen.PackageName())
	}

	output := string(gen.Bytes())

	for _, want := range []string{
		`"fmt"`,
		`"time"`,
		"type Student struct",
		"// DeepCopy 返回 Student 的深拷贝",
		"func (s *Student) DeepCopy() *Student",
		"// 逐字段赋值",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}

	// 文件头由合并时统一设置
	if strings.Contains(output, "DO NOT EDIT") {
		t.Errorf("expected file header to be dropped\n%s", output)
	}
}

func TestParseSourceToGGWithAlias(t *testing.T) {
	source := []byte(`package test

import (
	stdtime "time"
	. "fmt"
)

func Now() stdtime.Time {
	Println("now")
	return stdtime.Now()
}
`)

	gen, err := ParseSourceToGG(source)
	if err != nil {
		t.Fatalf("ParseSourceToGG failed: %v", err)
	}

	output := string(gen.Bytes())
	if !strings.Contains(output, `stdtime "time"`) {
		t.Errorf("expected aliased import\n%s", output)
	}
	if !strings.Contains(output, "func Now() stdtime.Time") {
		t.Errorf("expected Now function\n%s", output)
	}
}

func TestParseSourceToGGGeneric(t *testing.T) {
	source := []byte(`package test

// DeepCopiable 可深拷贝的类型
type DeepCopiable[T any] interface {
	DeepCopy() T
}

func (b *Box[T]) DeepCopy() *Box[T] {
	return &Box[T]{Value: b.Value}
}
`)

	gen, err := ParseSourceToGG(source)
	if err != nil {
		t.Fatalf("ParseSourceToGG failed: %v", err)
	}

	output := string(gen.Bytes())
	if !strings.Contains(output, "// DeepCopiable 可深拷贝的类型") {
		t.Errorf("expected doc comment\n%s", output)
	}
	if !strings.Contains(output, "type DeepCopiable[T any] interface") {
		t.Errorf("expected generic interface\n%s", output)
	}
	if !strings.Contains(output, "func (b *Box[T]) DeepCopy() *Box[T]") {
		t.Errorf("expected generic method\n%s", output)
	}
}

func TestParseSourceToGGWithNoImports(t *testing.T) {
	source := []byte(`package test

type Simple struct {
	Value int
}
`)

	gen, err := ParseSourceToGG(source)
	if err != nil {
		t.Fatalf("ParseSourceToGG failed: %v", err)
	}

	output := string(gen.Bytes())
	if !strings.Contains(output, "type Simple struct") {
		t.Error("expected output to contain Simple struct")
	}
	if strings.Contains(output, "import") {
		t.Errorf("expected no import block\n%s", output)
	}
}

func TestParseSourceToGGInvalid(t *testing.T) {
	if _, err := ParseSourceToGG([]byte("package test\n\nfunc {")); err == nil {
		t.Error("expected parse error")
	}
}
