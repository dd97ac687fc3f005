package event

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadNotifiesRegisteredObservers(t *testing.T) {
	m := NewEventManage()
	got := make(chan Event, 2)
	m.Register(RunChanged, func(e Event) { got <- e })
	m.Register(RunChanged, func(e Event) { got <- e })
	m.Register(RunFinished, func(e Event) { t.Error("unexpected RunFinished") })
	m.Register(RunChanged, nil)
	assert.Equal(t, 2, m.Observers(RunChanged))

	m.Upload(Event{Type: RunChanged, Key: "LHC15o"})
	for i := 0; i < 2; i++ {
		select {
		case e := <-got:
			assert.Equal(t, "LHC15o", e.Key)
		case <-time.After(time.Second):
			t.Fatal("observer not called")
		}
	}
	// 没有观察者的事件直接忽略
	m.Upload(Event{Type: AnalysisPanicExit})
}

func TestWaitAndReset(t *testing.T) {
	m := NewEventManage()
	var calls atomic.Int32
	m.Register(RunFinished, func(Event) {
		time.Sleep(10 * time.Millisecond)
		calls.Add(1)
	})
	m.Upload(Event{Type: RunFinished, Key: "run-1"})
	m.Upload(Event{Type: RunFinished, Key: "run-2"})
	m.Wait()
	assert.Equal(t, int32(2), calls.Load())

	m.Reset()
	assert.Equal(t, 0, m.Observers(RunFinished))
	m.Upload(Event{Type: RunFinished})
	m.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "run-changed", RunChanged.String())
	assert.Equal(t, "event-42", Type(42).String())
	assert.Equal(t, "run-finished(abc)", Event{Type: RunFinished, Key: "abc"}.String())
}

func TestErrorEvent(t *testing.T) {
	e := ErrorEvent(AnalysisPanicExit, errors.New("source closed"))
	err := ValueError(e.Value)
	require.Error(t, err)
	assert.Equal(t, "source closed", err.Error())
	assert.NoError(t, ValueError(nil))
	assert.NoError(t, ValueError(map[string]any{}))
}
