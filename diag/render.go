package diag

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var severityColors = map[Severity]*color.Color{
	SeverityError:   color.New(color.FgRed, color.Bold),
	SeverityWarning: color.New(color.FgYellow, color.Bold),
	SeverityInfo:    color.New(color.FgCyan),
}

// RenderOptions 终端输出选项
type RenderOptions struct {
	Color   bool   // 按严重程度着色
	BaseDir string // 非空时位置显示为相对路径
}

// Render 以对齐的表格形式输出诊断
// 列宽按显示宽度计算，中文标签也能对齐
func Render(w io.Writer, ds []Diagnostic, opts RenderOptions) error {
	if len(ds) == 0 {
		return nil
	}

	rows := make([][3]string, len(ds))
	var widths [3]int
	for i, d := range ds {
		rows[i] = [3]string{d.Severity().Label(), d.Descriptor.ID, location(d, opts.BaseDir)}
		for j, cell := range rows[i] {
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}

	for i, d := range ds {
		row := rows[i]
		label := padRight(row[0], widths[0])
		if c, ok := severityColors[d.Severity()]; ok && opts.Color {
			label = c.Sprint(label)
		}
		line := strings.Join([]string{label, padRight(row[1], widths[1]), padRight(row[2], widths[2]), d.Message()}, "  ")
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func location(d Diagnostic, baseDir string) string {
	if !d.HasLocation() {
		return "-"
	}
	pos := d.Pos
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, pos.Filename); err == nil && !strings.HasPrefix(rel, "..") {
			pos.Filename = rel
		}
	}
	return pos.String()
}

func padRight(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

type jsonRecord struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// WriteJSON 每行输出一条 JSON 格式的诊断
func WriteJSON(w io.Writer, ds []Diagnostic) error {
	for _, d := range ds {
		data, err := sonic.Marshal(jsonRecord{
			ID:       d.Descriptor.ID,
			Severity: d.Severity().String(),
			Category: d.Descriptor.Category,
			Title:    d.Descriptor.Title,
			Message:  d.Message(),
			File:     d.Pos.Filename,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
		})
		if err != nil {
			return fmt.Errorf("序列化诊断 %s 失败: %w", d.Descriptor.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
