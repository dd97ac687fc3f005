package event

import (
	"fmt"
	"sync"
)

// EventAdmin 进程级的事件分发器
var EventAdmin = NewEventManage()

// EventManage 按事件类型保存观察者，每个观察者在独立协程中被调用
type EventManage struct {
	mu        sync.RWMutex
	observers map[Type][]ObserverFunc
	inflight  sync.WaitGroup
}

func NewEventManage() *EventManage {
	return &EventManage{observers: map[Type][]ObserverFunc{}}
}

func (e *EventManage) Register(et Type, observer ObserverFunc) {
	if observer == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers[et] = append(e.observers[et], observer)
}

// Reset 移除所有观察者
func (e *EventManage) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.observers)
}

// Observers 某个类型已注册的观察者数量
func (e *EventManage) Observers(et Type) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.observers[et])
}

// Upload 异步通知所有观察者，没有观察者的事件直接丢弃
func (e *EventManage) Upload(event Event) {
	e.mu.RLock()
	observers := append([]ObserverFunc(nil), e.observers[event.Type]...)
	e.mu.RUnlock()
	for _, fn := range observers {
		e.inflight.Add(1)
		go func(fn ObserverFunc) {
			defer e.inflight.Done()
			fn(event)
		}(fn)
	}
}

// Wait 等待已分发的观察者执行完
func (e *EventManage) Wait() {
	e.inflight.Wait()
}

const Error = "error"

// ErrorEvent 把 err 放入 Value 的 error 字段
func ErrorEvent(t Type, err error) Event {
	return Event{
		Type:  t,
		Value: map[string]any{Error: err.Error()},
	}
}

func ValueError(data map[string]any) error {
	if err, ok := data[Error]; ok {
		return fmt.Errorf("%v", err)
	}
	return nil
}
