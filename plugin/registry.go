package plugin

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry 注解注册表，一个注解只能绑定一个生成器
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*binding  // 注解名 -> 绑定
	byName   map[string]Generator // 生成器名 -> 生成器
}

// binding 注解与生成器的绑定，targets 是生成器接受的目标类型
type binding struct {
	gen     Generator
	targets []TargetKind
}

func (b *binding) accepts(kind TargetKind) bool {
	return slices.Contains(b.targets, kind)
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]*binding),
		byName:   make(map[string]Generator),
	}
}

// Register 注册生成器，名称或任一注解已被占用时返回错误
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := gen.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("生成器 %q 已注册", name)
	}
	for _, ann := range gen.Annotations() {
		if b, ok := r.bindings[ann]; ok {
			return fmt.Errorf("注解 @%s 已被生成器 %q 绑定，无法被 %q 再次绑定", ann, b.gen.Name(), name)
		}
	}

	r.byName[name] = gen
	b := &binding{gen: gen, targets: gen.SupportedTargets()}
	for _, ann := range gen.Annotations() {
		r.bindings[ann] = b
	}
	return nil
}

// MustRegister 注册生成器，失败时 panic
func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

// Generators 返回所有生成器，按优先级排序，同优先级按名称
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gens := make([]Generator, 0, len(r.byName))
	for _, gen := range r.byName {
		gens = append(gens, gen)
	}
	slices.SortFunc(gens, byPriority)
	return gens
}

// Annotations 按名称顺序返回所有已注册的注解
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	anns := make([]string, 0, len(r.bindings))
	for ann := range r.bindings {
		anns = append(anns, ann)
	}
	slices.Sort(anns)
	return anns
}

// Job 一个生成器本轮需要处理的目标
type Job struct {
	Generator Generator
	Targets   []*AnnotatedTarget
}

// Dispatch 分发结果
type Dispatch struct {
	Jobs []Job // 按生成器优先级排列

	// Unsupported 注解已注册，但目标类型不被对应生成器接受，例如写在接口上的 @DeepCopiable
	Unsupported []*AnnotatedTarget
}

// Dispatch 将扫描结果分发给对应的生成器
// 同一目标上重复书写的注解只分发一次，未注册的注解忽略
func (r *Registry) Dispatch(result *ScanResult) *Dispatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Dispatch{}
	jobs := make(map[string]*Job)
	for _, target := range result.All() {
		seen := make(map[string]bool)
		rejected := false
		for _, ann := range target.Annotations {
			b, ok := r.bindings[ann.Name]
			if !ok || seen[b.gen.Name()] {
				continue
			}
			if !b.accepts(target.Target.Kind) {
				rejected = true
				continue
			}
			seen[b.gen.Name()] = true
			job, ok := jobs[b.gen.Name()]
			if !ok {
				job = &Job{Generator: b.gen}
				jobs[b.gen.Name()] = job
			}
			job.Targets = append(job.Targets, target)
		}
		if rejected && len(seen) == 0 {
			out.Unsupported = append(out.Unsupported, target)
		}
	}

	for _, job := range jobs {
		out.Jobs = append(out.Jobs, *job)
	}
	slices.SortFunc(out.Jobs, func(a, b Job) int { return byPriority(a.Generator, b.Generator) })
	return out
}

// byPriority 优先级数字越小越靠前
func byPriority(a, b Generator) int {
	return cmp.Or(cmp.Compare(a.Priority(), b.Priority()), strings.Compare(a.Name(), b.Name()))
}

var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// MustRegister 向全局注册表注册生成器，失败时 panic
func MustRegister(gen Generator) {
	globalRegistry.MustRegister(gen)
}
