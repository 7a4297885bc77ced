package plugin

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// UsageProvider 可选接口，为帮助文本提供额外的用法说明
type UsageProvider interface {
	Usage() []string
}

// FormatHelpText 为所有注册的生成器生成帮助文本
func FormatHelpText(registry *Registry) string {
	generators := registry.Generators()
	if len(generators) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder

	for _, gen := range generators {
		annotations := gen.Annotations()
		if len(annotations) == 0 {
			continue
		}

		// 获取主注解名
		mainAnnotation := annotations[0]

		sb.WriteString(fmt.Sprintf("  @%s - %s\n", mainAnnotation, gen.Name()))

		targets := lo.Map(gen.SupportedTargets(), func(k TargetKind, _ int) string {
			return k.String()
		})
		sb.WriteString(fmt.Sprintf("    目标: %s\n", strings.Join(targets, ", ")))
		sb.WriteString("    参数: 无\n")

		if up, ok := gen.(UsageProvider); ok {
			if lines := up.Usage(); len(lines) > 0 {
				sb.WriteString("    说明:\n")
				for _, line := range lines {
					sb.WriteString("      " + line + "\n")
				}
			}
		}

		sb.WriteString("    示例:\n")
		for _, ann := range annotations {
			sb.WriteString(fmt.Sprintf("      // @%s\n", ann))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
