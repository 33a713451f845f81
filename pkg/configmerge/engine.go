package configmerge

import (
	"fmt"

	"github.com/alpinehq/sherpa/pkg/log"
	"github.com/alpinehq/sherpa/pkg/metrics"
	"github.com/alpinehq/sherpa/pkg/storage"
	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/rs/zerolog"
)

// revisionNote is the change comment attached to revisions the engine
// creates.
const revisionNote = "Configuration created for upgrade"

// Engine reconciles service configurations when a run crosses a stack
// boundary: merging new-stack defaults with live customizations on
// upgrade, restoring the previous stack's configuration on downgrade.
type Engine struct {
	store  storage.ConfigStore
	logger zerolog.Logger
}

// New creates a merge engine over the given config store.
func New(store storage.ConfigStore) *Engine {
	return &Engine{
		store:  store,
		logger: log.WithComponent("configmerge"),
	}
}

// Reconcile processes every service participating in the run. Services
// whose source and target stack are identical are never touched. Any
// store failure aborts the whole call; nothing is partially committed
// beyond the services already processed in order.
func (e *Engine) Reconcile(ctx *types.UpgradeContext, actor string) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.MergeLatency)

	for _, service := range ctx.Supported {
		source, ok := ctx.SourceRepository(service)
		if !ok {
			return fmt.Errorf("no source repository version for service %s", service)
		}
		target, ok := ctx.TargetRepository(service)
		if !ok {
			return fmt.Errorf("no target repository version for service %s", service)
		}

		// Same-stack transitions never touch configuration.
		if source.Stack.Equal(target.Stack) {
			e.logger.Info().
				Str("service", service).
				Str("stack", target.Stack.String()).
				Msgf("the %s will not change stack configurations: source and target stacks are identical", ctx.Direction.Text(false))
			metrics.MergesTotal.WithLabelValues("same_stack").Inc()
			continue
		}

		// Downgrade restores the newest configuration recorded for the
		// older stack. Every qualifying service is reverted in turn.
		if ctx.Direction.IsDowngrade() {
			if err := e.store.ApplyLatestConfigurations(ctx.Cluster, target.Stack, service); err != nil {
				return fmt.Errorf("failed to revert configurations for %s: %w", service, err)
			}
			metrics.MergesTotal.WithLabelValues("reverted").Inc()
			continue
		}

		if err := e.mergeService(ctx, service, source.Stack, target.Stack, actor); err != nil {
			return err
		}
		metrics.MergesTotal.WithLabelValues("merged").Inc()
	}

	return nil
}

// mergeService performs the three-way merge for one service and records
// the result as a new configuration revision on the target stack.
func (e *Engine) mergeService(ctx *types.UpgradeContext, service string, sourceStack, targetStack types.StackID, actor string) error {
	oldDefaults, err := e.store.DefaultProperties(sourceStack, service)
	if err != nil {
		return fmt.Errorf("failed to load %s defaults for %s: %w", sourceStack, service, err)
	}

	newDefaults, err := e.store.DefaultProperties(targetStack, service)
	if err != nil {
		return fmt.Errorf("failed to load %s defaults for %s: %w", targetStack, service, err)
	}

	live, err := e.store.LiveConfig(ctx.Cluster, service)
	if err != nil {
		return fmt.Errorf("failed to load live configuration for %s: %w", service, err)
	}

	merged := Merge(oldDefaults, newDefaults, live, func(configType, property string) {
		e.logger.Info().
			Str("service", service).
			Str("type", configType).
			Str("property", property).
			Str("source", sourceStack.String()).
			Str("target", targetStack.String()).
			Msg("property exists in both stacks but not in the live configuration; excluding from merge")
	})

	configTypes := make([]string, 0, len(merged))
	for t := range merged {
		configTypes = append(configTypes, t)
	}
	e.logger.Info().
		Str("service", service).
		Str("stack", targetStack.String()).
		Strs("types", configTypes).
		Msg("creating merged configurations for target stack")

	if err := e.store.CreateConfigRevision(ctx.Cluster, targetStack, service, merged, actor, revisionNote); err != nil {
		return fmt.Errorf("failed to create configuration revision for %s: %w", service, err)
	}
	return nil
}

// Merge reconciles three configuration sets per type: the defaults the
// source stack shipped with, the defaults of the target stack, and the
// live cluster configuration. The rules, applied per configuration type
// present in the live configuration:
//
//   - a type the target stack does not know at all is carried over
//     unchanged from the live configuration
//   - target defaults with empty values are dropped; defaults that no
//     longer exist on the new stack are not silently reintroduced
//   - a live value differing from the source-stack default was customized
//     by an operator and always wins over the target default
//   - a live value equal to the source-stack default was never customized,
//     so a changed target default is taken as-is
//   - live properties the target defaults do not define are carried over
//   - a source-stack default absent from the live configuration is removed
//     from the result even when the target stack still defines it: the
//     cluster deliberately dropped it and it must not resurface
//
// removed is invoked for every property excluded by the last rule; it may
// be nil.
func Merge(oldDefaults, newDefaults map[string]map[string]string, live []types.ConfigGroup, removed func(configType, property string)) map[string]map[string]string {
	merged := make(map[string]map[string]string, len(newDefaults))
	for configType, props := range newDefaults {
		copied := make(map[string]string, len(props))
		for k, v := range props {
			copied[k] = v
		}
		merged[configType] = copied
	}

	for _, group := range live {
		oldTypeDefaults := oldDefaults[group.Type]
		existing := group.Properties

		target, ok := merged[group.Type]
		if !ok {
			copied := make(map[string]string, len(existing))
			for k, v := range existing {
				copied[k] = v
			}
			merged[group.Type] = copied
			continue
		}

		// Defaults with empty values no longer exist on the new stack.
		for k, v := range target {
			if v == "" {
				delete(target, k)
			}
		}

		for key, liveValue := range existing {
			newValue, ok := target[key]
			if !ok {
				target[key] = liveValue
				continue
			}
			if liveValue != newValue && liveValue != oldTypeDefaults[key] {
				// Customized after installation; the customization wins.
				target[key] = liveValue
			}
		}

		for key := range target {
			if _, inOld := oldTypeDefaults[key]; !inOld {
				continue
			}
			if _, inLive := existing[key]; inLive {
				continue
			}
			if removed != nil {
				removed(group.Type, key)
			}
			delete(target, key)
		}
	}

	return merged
}
