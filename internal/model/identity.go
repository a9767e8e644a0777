package model

import "fmt"

// ActorKind 标识请求方身份类型（教师或学生）
type ActorKind string

const (
	ActorTeacher ActorKind = "teacher"
	ActorStudent ActorKind = "student"
)

// Actor 由认证层解析一次后显式传入各个 service，
// 核心逻辑不再从全局状态读取"当前用户"。
// 消息发送者的多态身份也用它表示：(Kind, ID) 组合唯一。
type Actor struct {
	Kind ActorKind `json:"kind"`
	ID   uint      `json:"id"`
}

func (a Actor) IsTeacher() bool { return a.Kind == ActorTeacher }
func (a Actor) IsStudent() bool { return a.Kind == ActorStudent }

// Same 比较多态身份，必须同时匹配类型与 ID
func (a Actor) Same(kind ActorKind, id uint) bool {
	return a.Kind == kind && a.ID == id
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.ID)
}
