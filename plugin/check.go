package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff 比较期望内容与磁盘上的文件，返回统一格式的差异
// 内容一致时返回空字符串，文件不存在时视为空文件
func Diff(path string, want []byte) (string, error) {
	got, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if string(got) == string(want) {
		return "", nil
	}

	name := filepath.ToSlash(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(got)),
		B:        difflib.SplitLines(string(want)),
		FromFile: "a/" + strings.TrimPrefix(name, "/"),
		ToFile:   "b/" + strings.TrimPrefix(name, "/"),
		Context:  3,
	})
}
