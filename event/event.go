package event

import "fmt"

// Type 事件类型，按千位分组
type Type int

const (
	AnalysisPanicExit Type = 1000
	RunChanged        Type = 2000
	RunFinished       Type = 3000
)

var typeNames = map[Type]string{
	AnalysisPanicExit: "analysis-panic-exit",
	RunChanged:        "run-changed",
	RunFinished:       "run-finished",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event-%d", int(t))
}

// Event Key 为周期名或运行 ID，Value 为附带的计数或上下文字段
type Event struct {
	Type  Type
	Key   string
	Value map[string]any
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Type, e.Key)
}

type ObserverFunc func(e Event)

// Subject 观察者注册与分发
type Subject interface {
	Register(et Type, observer ObserverFunc)
	Upload(event Event)
}
