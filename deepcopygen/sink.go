package deepcopygen

import "sync"

// Output 接收生成单元
type Output interface {
	AddSource(unit Unit)
}

// SourceSet 按文件名收集生成单元
// 同名单元后写入的覆盖先写入的，不同包中同名类型会互相覆盖
type SourceSet struct {
	mu    sync.Mutex
	units map[string]Unit
	order []string
}

func NewSourceSet() *SourceSet {
	return &SourceSet{units: make(map[string]Unit)}
}

func (s *SourceSet) AddSource(unit Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[unit.Name]; !ok {
		s.order = append(s.order, unit.Name)
	}
	s.units[unit.Name] = unit
}

// Get 按文件名查找单元
func (s *SourceSet) Get(name string) (Unit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[name]
	return u, ok
}

// Units 按首次写入顺序返回所有单元
func (s *SourceSet) Units() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Unit, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.units[name])
	}
	return out
}

func (s *SourceSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}
