package plugin

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// annotationRegex 匹配注解 @Name 或 @Name(params)
var annotationRegex = regexp.MustCompile(`@(\w+)(?:\(([^)]*)\))?`)

// paramRegex 匹配参数:
// - key=`value` (反引号格式)
// - key="value" (双引号格式)
// - key=value (普通格式)
var paramRegex = regexp.MustCompile("(\\w+)\\s*=\\s*`([^`]*)`|(\\w+)\\s*=\\s*\"([^\"]*)\"|(\\w+)\\s*=\\s*([^,\\s]+)")

// ParseAnnotations 从注释文本中解析所有注解
func ParseAnnotations(comment string) []*Annotation {
	var annotations []*Annotation

	// 按行处理
	lines := strings.Split(comment, "\n")
	for _, line := range lines {
		// 去除注释前缀
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)

		// 查找所有注解
		matches := annotationRegex.FindAllStringSubmatch(line, -1)
		for _, match := range matches {
			ann := &Annotation{
				Name:   match[1],
				Params: make(map[string]string),
				Raw:    match[0],
			}

			// 解析参数
			if len(match) > 2 && match[2] != "" {
				ann.Params = parseParams(match[2])
			}

			annotations = append(annotations, ann)
		}
	}

	return annotations
}

// parseParams 解析注解参数
func parseParams(content string) map[string]string {
	params := make(map[string]string)

	matches := paramRegex.FindAllStringSubmatch(content, -1)
	for _, match := range matches {
		var key, value string
		if match[1] != "" {
			// 反引号格式: key=`value`
			key = strings.ToLower(match[1])
			value = match[2]
		} else if match[3] != "" {
			// 双引号格式: key="value"
			key = strings.ToLower(match[3])
			value = match[4]
		} else if match[5] != "" {
			// 普通格式: key=value
			key = strings.ToLower(match[5])
			value = match[6]
		}
		if key != "" {
			params[key] = value
		}
	}

	return params
}

// FilterByNames 过滤指定名称的注解
func FilterByNames(annotations []*Annotation, names ...string) []*Annotation {
	if len(names) == 0 {
		return annotations
	}

	return lo.Filter(annotations, func(ann *Annotation, _ int) bool {
		return lo.Contains(names, ann.Name)
	})
}

// HasAnnotation 检查是否包含指定注解，只比较书写的名称
func HasAnnotation(annotations []*Annotation, name string) bool {
	return GetAnnotation(annotations, name) != nil
}

// GetAnnotation 获取指定名称的注解
func GetAnnotation(annotations []*Annotation, name string) *Annotation {
	for _, ann := range annotations {
		if ann.Name == name {
			return ann
		}
	}
	return nil
}

// HasParams 注解是否带有参数
func (a *Annotation) HasParams() bool {
	return len(a.Params) > 0
}
