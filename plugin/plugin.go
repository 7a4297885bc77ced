package plugin

// Generator 是代码生成器接口
// 每个生成器绑定一组注解，扫描到的目标按注解分发给对应的生成器
type Generator interface {
	// Name 返回生成器名称
	Name() string

	// Annotations 返回该生成器支持的注解列表
	// 一个注解只能绑定一个生成器
	Annotations() []string

	// SupportedTargets 返回支持的目标类型
	// 例如：deepcopygen 只支持 TargetStruct
	SupportedTargets() []TargetKind

	// Priority 返回生成器优先级
	// 数字越小优先级越高，输出合并时优先级高的在前面
	// 默认值为 100
	Priority() int

	// Generate 执行代码生成
	// 返回的 GenerateResult 包含 gg 定义，由聚合器统一处理
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// Initializer 可选接口，每轮生成开始前调用一次
// 无论本轮是否扫描到目标都会调用，用于输出与目标无关的固定内容
type Initializer interface {
	Initialize(ctx *InitContext) (*GenerateResult, error)
}

// BaseGenerator 提供基础实现，可嵌入
type BaseGenerator struct {
	name        string
	annotations []string
	targets     []TargetKind
}

// DefaultPriority 生成器默认优先级，数字越小越先执行
const DefaultPriority = 100

func NewBaseGenerator(name string, annotations []string, targets []TargetKind) *BaseGenerator {
	return &BaseGenerator{
		name:        name,
		annotations: annotations,
		targets:     targets,
	}
}

func (g *BaseGenerator) Name() string {
	return g.name
}

func (g *BaseGenerator) Annotations() []string {
	return g.annotations
}

func (g *BaseGenerator) SupportedTargets() []TargetKind {
	return g.targets
}

// Priority 返回默认优先级，需要调整顺序的生成器自行覆盖
func (g *BaseGenerator) Priority() int {
	return DefaultPriority
}
