package graph

import (
	"fmt"
	"strings"
)

// Violation 单条校验违规：哪个实体、哪条键、违反了什么规则
type Violation struct {
	Kind    Kind   // 实体种类
	Key     Key    // 实体键
	Rule    string // 违反的规则名（required/format/range/reference等）
	Message string // 具体说明
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s（%s）", v.Rule, v.Key, v.Message, v.Kind)
}

// ViolationSet 一批记录的全部违规集合（批量诊断，不止报第一条）
type ViolationSet []Violation

func (vs ViolationSet) Error() string {
	if len(vs) == 0 {
		return "无违规"
	}
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("共%d条校验违规: %s", len(vs), strings.Join(msgs, "; "))
}

func (vs ViolationSet) Empty() bool {
	return len(vs) == 0
}
