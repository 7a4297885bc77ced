package deepcopygen

import "github.com/donutnomad/deepcopygen/diag"

const diagCategory = "DeepCopy"

var (
	// MissingDefaultConstructor 声明了构造函数但都需要参数
	MissingDefaultConstructor = &diag.Descriptor{
		ID:            "MDCFDCAT01234",
		Title:         "缺少无参构造函数",
		MessageFormat: "类型 '%s' 必须提供无参构造函数才能生成深拷贝",
		Category:      diagCategory,
		Severity:      diag.SeverityError,
		Description:   "生成的 DeepCopy 需要在不提供参数的情况下创建新实例。未声明任何 New 构造函数时使用零值，不会触发此诊断。",
	}

	// MissingPublicSetter 字段无法在包外赋值
	MissingPublicSetter = &diag.Descriptor{
		ID:            "MHPWNPSDC43210",
		Title:         "字段不可公开赋值",
		MessageFormat: "类型 '%s' 的字段 '%s' 必须可公开赋值才能生成深拷贝（%s）",
		Category:      diagCategory,
		Severity:      diag.SeverityError,
		Description:   "生成的 DeepCopy 会逐个复制字段，空白字段 _、未导出字段和 @InitOnly 字段都无法被复制。",
	}
)

const (
	reasonNoSetter   = "空白字段无法赋值"
	reasonInitOnly   = "字段标记为 @InitOnly"
	reasonUnexported = "字段未导出"
)
