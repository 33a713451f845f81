package pack

import (
	"fmt"

	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/google/uuid"
)

// StageWrapperBuilder materializes the ordered stages of one group. The
// planner submits every resolved component through Add and calls Build
// once; the builder owns stage granularity and ordering within the group.
type StageWrapperBuilder interface {
	Add(ctx *types.UpgradeContext, hosts *types.HostsType, service string, clientOnly bool, pc *ProcessingComponent, params map[string]string)
	Build(ctx *types.UpgradeContext) []*types.StageWrapper
}

// submission is one Add call held until Build.
type submission struct {
	hosts      *types.HostsType
	service    string
	clientOnly bool
	pc         *ProcessingComponent
	params     map[string]string
}

func wrap(sub *submission, tasks []*types.Task) *types.TaskWrapper {
	return &types.TaskWrapper{
		ID:        uuid.New().String(),
		Service:   sub.service,
		Component: sub.pc.Name,
		Hosts:     sub.hosts.Hosts,
		Params:    sub.params,
		Tasks:     tasks,
	}
}

// standardBuilder emits one stage per submitted component carrying the
// component's explicit processing tasks, optionally followed by one
// service-check stage per distinct non-client service.
type standardBuilder struct {
	serviceCheck bool
	subs         []*submission
}

func newStandardBuilder(serviceCheck bool) *standardBuilder {
	return &standardBuilder{serviceCheck: serviceCheck}
}

func (b *standardBuilder) Add(ctx *types.UpgradeContext, hosts *types.HostsType, service string, clientOnly bool, pc *ProcessingComponent, params map[string]string) {
	b.subs = append(b.subs, &submission{hosts: hosts, service: service, clientOnly: clientOnly, pc: pc, params: params})
}

func (b *standardBuilder) Build(ctx *types.UpgradeContext) []*types.StageWrapper {
	var stages []*types.StageWrapper
	for _, sub := range b.subs {
		stages = append(stages, &types.StageWrapper{
			Text: fmt.Sprintf("{{direction.verb.proper}} %s / %s",
				ctx.ServiceDisplay(sub.service), ctx.ComponentDisplay(sub.service, sub.pc.Name)),
			Tasks: []*types.TaskWrapper{wrap(sub, sub.pc.Tasks)},
		})
	}

	if b.serviceCheck {
		stages = append(stages, serviceCheckStages(ctx, b.subs)...)
	}
	return stages
}

// functionBuilder emits one stage per submitted component carrying the
// group's implied stop/start/restart action.
type functionBuilder struct {
	function types.TaskKind
	subs     []*submission
}

func newFunctionBuilder(function types.TaskKind) *functionBuilder {
	return &functionBuilder{function: function}
}

func (b *functionBuilder) Add(ctx *types.UpgradeContext, hosts *types.HostsType, service string, clientOnly bool, pc *ProcessingComponent, params map[string]string) {
	b.subs = append(b.subs, &submission{hosts: hosts, service: service, clientOnly: clientOnly, pc: pc, params: params})
}

func (b *functionBuilder) Build(ctx *types.UpgradeContext) []*types.StageWrapper {
	verbs := map[types.TaskKind]string{
		types.TaskKindStop:    "Stop",
		types.TaskKindStart:   "Start",
		types.TaskKindRestart: "Restart",
	}

	var stages []*types.StageWrapper
	for _, sub := range b.subs {
		stages = append(stages, &types.StageWrapper{
			Text: fmt.Sprintf("%s %s / %s", verbs[b.function],
				ctx.ServiceDisplay(sub.service), ctx.ComponentDisplay(sub.service, sub.pc.Name)),
			Tasks: []*types.TaskWrapper{wrap(sub, sub.pc.Tasks)},
		})
	}
	return stages
}

// serviceCheckBuilder emits one service-check stage per distinct service
// in submission order.
type serviceCheckBuilder struct {
	subs []*submission
}

func newServiceCheckBuilder() *serviceCheckBuilder {
	return &serviceCheckBuilder{}
}

func (b *serviceCheckBuilder) Add(ctx *types.UpgradeContext, hosts *types.HostsType, service string, clientOnly bool, pc *ProcessingComponent, params map[string]string) {
	b.subs = append(b.subs, &submission{hosts: hosts, service: service, clientOnly: clientOnly, pc: pc, params: params})
}

func (b *serviceCheckBuilder) Build(ctx *types.UpgradeContext) []*types.StageWrapper {
	return serviceCheckStages(ctx, b.subs)
}

// serviceCheckStages produces one check stage per distinct non-client
// service, preserving first-submission order.
func serviceCheckStages(ctx *types.UpgradeContext, subs []*submission) []*types.StageWrapper {
	seen := make(map[string]bool)
	var stages []*types.StageWrapper

	for _, sub := range subs {
		if sub.clientOnly || seen[sub.service] {
			continue
		}
		seen[sub.service] = true

		task := &types.Task{
			Kind:    types.TaskKindServiceCheck,
			Summary: fmt.Sprintf("Verify %s after {{direction.text}}", ctx.ServiceDisplay(sub.service)),
		}
		stages = append(stages, &types.StageWrapper{
			Text: fmt.Sprintf("Service check %s", ctx.ServiceDisplay(sub.service)),
			Tasks: []*types.TaskWrapper{{
				ID:      uuid.New().String(),
				Service: sub.service,
				Hosts:   sub.hosts.Hosts,
				Tasks:   []*types.Task{task},
			}},
		})
	}
	return stages
}
