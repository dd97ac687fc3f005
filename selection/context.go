package selection

import (
	"sync"

	"github.com/xuenqlve/cutbrick/event"
	"github.com/xuenqlve/cutbrick/log"
)

// Energy 数据周期对应的对撞能量
type Energy int

const (
	EnergyUnset       Energy = iota // 未设置
	Energy900GeV                    // pp 900 GeV
	Energy2760GeV                   // pp 2.76 TeV
	Energy5TeV                      // pp 5 TeV
	Energy7TeV                      // pp 7 TeV
	Energy8TeV                      // pp 8 TeV
	Energy13TeV                     // pp 13 TeV
	EnergyPPb5TeV                   // pPb 5 TeV
	EnergyPPb8TeV                   // pPb 8 TeV
	EnergyPbPb2760GeV               // PbPb 2.76 TeV
	EnergyPbPb5TeV                  // PbPb 5 TeV
	EnergyXeXe5440GeV               // XeXe 5.44 TeV
)

var energyNames = []string{
	"unset", "pp 900GeV", "pp 2.76TeV", "pp 5TeV", "pp 7TeV", "pp 8TeV", "pp 13TeV",
	"pPb 5TeV", "pPb 8TeV", "PbPb 2.76TeV", "PbPb 5TeV", "XeXe 5.44TeV",
}

func (e Energy) String() string {
	if e < 0 || int(e) >= len(energyNames) {
		return "unknown"
	}
	return energyNames[e]
}

// RunContext 当前分析的数据周期信息，只读
type RunContext struct {
	PeriodName    string
	DataPeriod    string
	AnchorPeriod  string
	Energy        Energy
	IsMC          bool
	IsMCOnlyTruth bool
}

// PeriodProvider 提供当前数据周期
type PeriodProvider interface {
	PeriodName() string
	RunNumber() int
}

// StaticPeriod 固定周期，用于配置文件指定的分析
type StaticPeriod struct {
	Name string
	Run  int
}

func (p StaticPeriod) PeriodName() string { return p.Name }

func (p StaticPeriod) RunNumber() int { return p.Run }

// Registry 维护当前数据周期，周期变化时通知观察者
type Registry struct {
	mu          sync.RWMutex
	current     RunContext
	productions map[string]RunContext
	events      event.Subject
}

func NewRegistry(events event.Subject) *Registry {
	r := &Registry{
		productions: map[string]RunContext{},
		events:      events,
	}
	r.RegisterProduction(RunContext{
		PeriodName:   "LHC15o",
		DataPeriod:   "LHC15o",
		AnchorPeriod: "LHC15o",
		Energy:       EnergyPbPb5TeV,
	})
	return r
}

// RegisterProduction 登记已知的生产周期
func (r *Registry) RegisterProduction(rc RunContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productions[rc.PeriodName] = rc
}

func (r *Registry) Context() RunContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// NotifyRun 处理可能发生的周期变化，返回周期是否改变
func (r *Registry) NotifyRun(p PeriodProvider) bool {
	name := p.PeriodName()
	r.mu.Lock()
	if name == r.current.PeriodName {
		r.mu.Unlock()
		return false
	}
	rc, ok := r.productions[name]
	if !ok {
		log.Warnf("period %s is not a registered production, energy unset", name)
		rc = RunContext{PeriodName: name, DataPeriod: name, AnchorPeriod: name}
	}
	r.current = rc
	r.mu.Unlock()

	log.Infof("data period has changed. new data period: %s run: %d energy: %s mc: %v",
		name, p.RunNumber(), rc.Energy, rc.IsMC)
	if r.events != nil {
		r.events.Upload(event.Event{
			Type: event.RunChanged,
			Key:  name,
			Value: map[string]any{
				"run":          p.RunNumber(),
				"data-period":  rc.DataPeriod,
				"anchor":       rc.AnchorPeriod,
				"energy":       rc.Energy.String(),
				"mc":           rc.IsMC,
				"mc-only-true": rc.IsMCOnlyTruth,
			},
		})
	}
	return true
}
