package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuenqlve/cutbrick/event"
)

func TestRegistryNotifyRun(t *testing.T) {
	events := event.NewEventManage()
	changed := make(chan event.Event, 4)
	events.Register(event.RunChanged, func(e event.Event) {
		changed <- e
	})
	r := NewRegistry(events)

	assert.True(t, r.NotifyRun(StaticPeriod{Name: "LHC15o", Run: 246087}))
	rc := r.Context()
	assert.Equal(t, "LHC15o", rc.DataPeriod)
	assert.Equal(t, EnergyPbPb5TeV, rc.Energy)
	assert.False(t, rc.IsMC)

	select {
	case e := <-changed:
		assert.Equal(t, "LHC15o", e.Key)
		assert.Equal(t, 246087, e.Value["run"])
	case <-time.After(time.Second):
		t.Fatal("no run changed event")
	}

	// 周期不变时不做任何事
	assert.False(t, r.NotifyRun(StaticPeriod{Name: "LHC15o", Run: 246088}))

	assert.True(t, r.NotifyRun(StaticPeriod{Name: "LHC18q", Run: 295585}))
	assert.Equal(t, EnergyUnset, r.Context().Energy)
	assert.Equal(t, "LHC18q", r.Context().AnchorPeriod)
}

func TestRegistryRegisterProduction(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterProduction(RunContext{
		PeriodName:   "LHC20e3a",
		DataPeriod:   "LHC18q",
		AnchorPeriod: "LHC18q",
		Energy:       EnergyPbPb5TeV,
		IsMC:         true,
	})
	require.True(t, r.NotifyRun(StaticPeriod{Name: "LHC20e3a"}))
	rc := r.Context()
	assert.True(t, rc.IsMC)
	assert.Equal(t, "LHC18q", rc.AnchorPeriod)
}

func TestEnergyString(t *testing.T) {
	assert.Equal(t, "PbPb 5TeV", EnergyPbPb5TeV.String())
	assert.Equal(t, "unset", EnergyUnset.String())
	assert.Equal(t, "unknown", Energy(99).String())
}
