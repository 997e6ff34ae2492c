package graph

// Snapshot 实体图的键集合快照（只含键，不含字段）
// 校验用的外键存在性判定全部是对该集合的成员测试
type Snapshot struct {
	keys map[Key]struct{}
}

func NewSnapshot() *Snapshot {
	return &Snapshot{keys: make(map[Key]struct{})}
}

func (s *Snapshot) Add(k Key) {
	s.keys[k] = struct{}{}
}

func (s *Snapshot) Has(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Clone 复制快照，规划器在模拟快照上叠加批内记录时使用，不污染原快照
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	for k := range s.keys {
		c.keys[k] = struct{}{}
	}
	return c
}
