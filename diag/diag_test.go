package diag

import (
	"bytes"
	"go/token"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDesc = &Descriptor{
	ID:            "TEST0001",
	Title:         "测试",
	MessageFormat: "类型 '%s' 有问题",
	Category:      "Test",
	Severity:      SeverityError,
}

var testWarn = &Descriptor{
	ID:            "TEST0002",
	Title:         "警告",
	MessageFormat: "字段 '%s' 可疑",
	Category:      "Test",
	Severity:      SeverityWarning,
}

func TestDiagnosticMessage(t *testing.T) {
	d := New(testDesc, token.Position{Filename: "a.go", Line: 3, Column: 6}, "User")
	assert.Equal(t, "类型 'User' 有问题", d.Message())
	assert.True(t, d.HasLocation())
	assert.Equal(t, "a.go:3:6", d.Location())
	assert.Equal(t, "a.go:3:6: error TEST0001: 类型 'User' 有问题", d.String())

	noPos := New(testDesc, token.Position{}, "User")
	assert.False(t, noPos.HasLocation())
	assert.Empty(t, noPos.Location())
	assert.Equal(t, "error TEST0001: 类型 'User' 有问题", noPos.String())
}

func TestBagConcurrentReport(t *testing.T) {
	bag := NewBag()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bag.Report(New(testDesc, token.Position{}, "X"))
			bag.Report(New(testWarn, token.Position{}, "y"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, bag.Len())
	assert.Equal(t, 50, bag.ErrorCount())
}

func TestSortByPosition(t *testing.T) {
	ds := []Diagnostic{
		New(testDesc, token.Position{}, "none"),
		New(testDesc, token.Position{Filename: "b.go", Line: 1, Column: 1}, "b1"),
		New(testDesc, token.Position{Filename: "a.go", Line: 9, Column: 2}, "a9"),
		New(testDesc, token.Position{Filename: "a.go", Line: 2, Column: 7}, "a2"),
	}
	SortByPosition(ds)

	var got []string
	for _, d := range ds {
		got = append(got, d.Args[0].(string))
	}
	assert.Equal(t, []string{"a2", "a9", "b1", "none"}, got)
}

func TestRenderAlignsColumns(t *testing.T) {
	ds := []Diagnostic{
		New(testDesc, token.Position{Filename: "/src/models/user.go", Line: 12, Column: 6}, "User"),
		New(testWarn, token.Position{}, "name"),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, ds, RenderOptions{BaseDir: "/src"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "错误  TEST0001  models/user.go:12:6  类型 'User' 有问题", lines[0])
	assert.Equal(t, "警告  TEST0002  -                    字段 'name' 可疑", lines[1])
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, RenderOptions{}))
	assert.Zero(t, buf.Len())
}

func TestWriteJSON(t *testing.T) {
	ds := []Diagnostic{
		New(testDesc, token.Position{Filename: "a.go", Line: 3, Column: 6}, "User"),
		New(testWarn, token.Position{}, "name"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ds))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first jsonRecord
	require.NoError(t, sonic.UnmarshalString(lines[0], &first))
	assert.Equal(t, "TEST0001", first.ID)
	assert.Equal(t, "error", first.Severity)
	assert.Equal(t, "类型 'User' 有问题", first.Message)
	assert.Equal(t, 3, first.Line)

	assert.NotContains(t, lines[1], `"file"`)
	assert.Contains(t, lines[1], `"severity":"warning"`)
}
