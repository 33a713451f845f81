package planner

import (
	"strings"

	"github.com/alpinehq/sherpa/pkg/catalog"
	"github.com/alpinehq/sherpa/pkg/hosts"
	"github.com/alpinehq/sherpa/pkg/log"
	"github.com/alpinehq/sherpa/pkg/metrics"
	"github.com/alpinehq/sherpa/pkg/pack"
	"github.com/alpinehq/sherpa/pkg/storage"
	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/rs/zerolog"
)

// UpgradeGroupHolder is one planned group: the ordered stages produced by
// the group's builder plus the effective retry/skip flags.
type UpgradeGroupHolder struct {
	Name  string         `json:"name"`
	Title string         `json:"title"`
	Kind  pack.GroupKind `json:"kind"`

	// Skippable is forced true for every group of a downgrade run.
	Skippable  bool `json:"skippable"`
	AllowRetry bool `json:"allow_retry"`
	AutoSkip   bool `json:"auto_skip"`

	Stages []*types.StageWrapper `json:"stages"`
}

// Planner turns an upgrade pack and a run context into an ordered,
// host-resolved task plan.
type Planner struct {
	resolver hosts.Resolver
	config   storage.ConfigStore
	catalog  catalog.Catalog
	logger   zerolog.Logger
}

// New creates a planner over the given collaborators.
func New(resolver hosts.Resolver, config storage.ConfigStore, cat catalog.Catalog) *Planner {
	return &Planner{
		resolver: resolver,
		config:   config,
		catalog:  cat,
		logger:   log.WithComponent("planner"),
	}
}

// CreateSequence generates the ordered group list that executes an
// upgrade or downgrade. The plan is built fresh on every call; the
// context accumulates unhealthy hosts and display names as a side
// record of the run.
func (p *Planner) CreateSequence(pk *pack.UpgradePack, ctx *types.UpgradeContext) ([]*UpgradeGroupHolder, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PlanningLatency)
	metrics.PlansTotal.WithLabelValues(string(ctx.Direction), string(ctx.Kind)).Inc()

	// Only a rolling run consults explicit processing tasks per component.
	allTasks := pk.Processing
	var groups []*UpgradeGroupHolder

	for _, group := range pk.GroupsFor(ctx.Direction) {
		if !ctx.IsScoped(group.Scope) {
			metrics.GroupsSkipped.WithLabelValues("scope").Inc()
			continue
		}

		// A declared condition the current run does not satisfy skips
		// the whole group.
		if group.Condition != nil && !group.Condition.IsSatisfied(ctx, p.resolver) {
			p.logger.Info().
				Str("group", group.Name).
				Str("condition", group.Condition.String()).
				Msg("skipping group: condition not satisfied")
			metrics.GroupsSkipped.WithLabelValues("condition").Inc()
			continue
		}

		holder := &UpgradeGroupHolder{
			Name:       group.Name,
			Title:      group.Title,
			Kind:       group.Kind,
			Skippable:  group.Skippable,
			AllowRetry: group.AllowRetry,
			AutoSkip:   group.AutoSkip,
		}

		// All downgrades are skippable.
		if ctx.Direction.IsDowngrade() {
			holder.Skippable = true
		}

		// Non-rolling runs perform service checks only in dedicated
		// service-check groups.
		serviceCheck := group.ServiceCheck
		if ctx.Kind == types.UpgradeKindNonRolling && group.Kind != pack.GroupKindServiceCheck {
			serviceCheck = false
		}

		builder := group.Builder(serviceCheck)

		services := group.Services

		// A rolling downgrade reverses the declared service order.
		if ctx.Kind == types.UpgradeKindRolling && ctx.Direction.IsDowngrade() && len(services) > 0 {
			reversed := make([]pack.OrderService, len(services))
			for i, s := range services {
				reversed[len(services)-1-i] = s
			}
			services = reversed
		}

		for _, service := range services {
			if !ctx.IsServiceSupported(service.Name) {
				continue
			}

			if ctx.Kind == types.UpgradeKindRolling && allTasks[service.Name] == nil {
				continue
			}

			for _, component := range service.Components {
				// A rolling run has exactly one task list per component.
				if ctx.Kind == types.UpgradeKindRolling && allTasks[service.Name][component] == nil {
					continue
				}

				ht, err := p.resolver.MasterAndHosts(service.Name, component)
				if err != nil {
					p.logger.Warn().Err(err).
						Str("service", service.Name).
						Str("cmp", component).
						Msg("skipping component: host resolution failed")
					metrics.ComponentSkips.WithLabelValues("no_hosts").Inc()
					continue
				}
				if ht == nil || len(ht.Hosts) == 0 {
					metrics.ComponentSkips.WithLabelValues("no_hosts").Inc()
					continue
				}

				if len(ht.Unhealthy) > 0 {
					ctx.AddUnhealthy(ht.Unhealthy)
				}

				clientOnly := false
				if svc := ctx.Topology.Service(service.Name); svc != nil {
					clientOnly = svc.ClientOnly
				}

				pc := deriveProcessing(allTasks, service.Name, component, group.Function)
				if pc == nil {
					p.logger.Error().
						Str("service", service.Name).
						Str("cmp", component).
						Msg("skipping component: no processing tasks could be derived")
					metrics.ComponentSkips.WithLabelValues("no_processing").Inc()
					continue
				}

				p.setDisplayNames(ctx, service.Name, component)

				if strings.EqualFold(service.Name, "HDFS") && strings.EqualFold(component, "NAMENODE") {
					p.addNameNode(builder, ctx, ht, service.Name, clientOnly, pc)
				} else {
					builder.Add(ctx, ht, service.Name, clientOnly, pc, nil)
				}
			}
		}

		// Groups whose builder yields nothing are dropped silently.
		stages := builder.Build(ctx)
		if len(stages) == 0 {
			continue
		}

		holder.Stages = stages
		p.postProcess(ctx, holder)
		groups = append(groups, holder)
		metrics.GroupsEmitted.Inc()
	}

	p.debugDump(groups)
	return groups, nil
}

// addNameNode handles the NameNode special case. Rolling runs must
// upgrade the standby before the active NameNode within one host group;
// non-rolling HA runs submit two single-host groups so each NameNode can
// be told which role to take.
func (p *Planner) addNameNode(builder pack.StageWrapperBuilder, ctx *types.UpgradeContext, ht *types.HostsType, service string, clientOnly bool, pc *pack.ProcessingComponent) {
	switch ctx.Kind {
	case types.UpgradeKindRolling:
		if len(ht.Hosts) > 0 && ht.Master != "" && ht.Secondary != "" {
			ordered := *ht
			ordered.Hosts = []string{ht.Secondary, ht.Master}
			builder.Add(ctx, &ordered, service, clientOnly, pc, nil)
			return
		}
		p.logger.Warn().
			Str("hosts", strings.Join(ht.Hosts, ",")).
			Str("active", ht.Master).
			Str("standby", ht.Secondary).
			Msg("could not orchestrate NameNode: hosts could not be resolved")
		metrics.ComponentSkips.WithLabelValues("namenode_unresolved").Inc()

	case types.UpgradeKindNonRolling:
		ha, err := p.resolver.IsNameNodeHA()
		if err != nil {
			p.logger.Warn().Err(err).Msg("could not determine NameNode HA state")
		}
		if ha && ht.Master != "" && ht.Secondary != "" {
			active := &types.HostsType{Hosts: []string{ht.Master}}
			standby := &types.HostsType{Hosts: []string{ht.Secondary}}

			builder.Add(ctx, active, service, clientOnly, pc,
				map[string]string{"desired_namenode_role": "active"})
			builder.Add(ctx, standby, service, clientOnly, pc,
				map[string]string{"desired_namenode_role": "standby"})
			return
		}

		// Without HA there is exactly one NameNode; no role parameter
		// is needed.
		builder.Add(ctx, ht, service, clientOnly, pc, nil)

	default:
		builder.Add(ctx, ht, service, clientOnly, pc, nil)
	}
}

// deriveProcessing resolves or synthesizes the task list for a component.
// Function groups synthesize: stop is always uniform, while start and
// restart prefer an explicit pack entry so components needing bespoke
// steps can override the boilerplate.
func deriveProcessing(allTasks map[string]map[string]*pack.ProcessingComponent, service, component string, function types.TaskKind) *pack.ProcessingComponent {
	if function == "" {
		return allTasks[service][component]
	}

	if function == types.TaskKindStop {
		return &pack.ProcessingComponent{
			Name:  component,
			Tasks: []*types.Task{{Kind: types.TaskKindStop}},
		}
	}

	if pc := allTasks[service][component]; pc != nil {
		return pc
	}

	switch function {
	case types.TaskKindStart, types.TaskKindRestart:
		return &pack.ProcessingComponent{
			Name:  component,
			Tasks: []*types.Task{{Kind: function}},
		}
	}
	return nil
}

// setDisplayNames caches catalog display names on the context. A missing
// catalog entry is not fatal; rendering falls back to raw names.
func (p *Planner) setDisplayNames(ctx *types.UpgradeContext, service, component string) {
	stack := ctx.Topology.DesiredStack

	display, err := p.catalog.ServiceDisplayName(stack, service)
	if err != nil {
		p.logger.Debug().Err(err).Str("service", service).Msg("could not get service detail")
		return
	}
	ctx.SetServiceDisplay(service, display)

	compDisplay, err := p.catalog.ComponentDisplayName(stack, service, component)
	if err != nil {
		p.logger.Debug().Err(err).Str("service", service).Str("cmp", component).
			Msg("could not get component detail")
		return
	}
	ctx.SetComponentDisplay(service, component, compDisplay)
}

func (p *Planner) debugDump(groups []*UpgradeGroupHolder) {
	if p.logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	for _, group := range groups {
		p.logger.Debug().Str("group", group.Name).Msg("planned group")
		for i, stage := range group.Stages {
			p.logger.Debug().Int("stage", i).Str("text", stage.Text).Msg("planned stage")
			for j, task := range stage.Tasks {
				p.logger.Debug().Int("stage", i).Int("task", j).
					Str("service", task.Service).
					Str("cmp", task.Component).
					Strs("hosts", task.Hosts).
					Msg("planned task")
			}
		}
	}
}
