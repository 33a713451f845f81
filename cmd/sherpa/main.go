package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alpinehq/sherpa/pkg/catalog"
	"github.com/alpinehq/sherpa/pkg/hosts"
	"github.com/alpinehq/sherpa/pkg/log"
	"github.com/alpinehq/sherpa/pkg/pack"
	"github.com/alpinehq/sherpa/pkg/planner"
	"github.com/alpinehq/sherpa/pkg/storage"
	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sherpa",
	Short: "Sherpa - Cluster upgrade sequence planner",
	Long: `Sherpa plans rolling and non-rolling upgrades (and downgrades) of
distributed service clusters. Given an upgrade pack and the cluster
topology it produces an ordered execution plan of groups, stages, and
host-bound tasks, and reconciles service configurations when the run
crosses a major stack boundary.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Sherpa version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("data-dir", "/var/lib/sherpa", "Data directory for cluster state")
	rootCmd.PersistentFlags().String("pack-dir", "/etc/sherpa/packs", "Directory containing upgrade pack files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(packsCmd)

	for _, cmd := range []*cobra.Command{planCmd, reconcileCmd} {
		cmd.Flags().String("cluster", "", "Cluster name (required)")
		cmd.Flags().String("direction", "upgrade", "Run direction (upgrade or downgrade)")
		cmd.Flags().String("kind", "rolling", "Upgrade kind (rolling or non-rolling)")
		cmd.Flags().String("source-version", "", "Repository version the run moves from (required)")
		cmd.Flags().String("target", "", "Target as STACK:version, e.g. HDP-2.3:2.3.0.0-2557 (required)")
		cmd.Flags().String("scope", string(types.ScopeComplete), "Run scope (partial or complete)")
		cmd.Flags().StringSlice("services", nil, "Participating services (default: all installed)")
	}
	planCmd.Flags().String("pack", "", "Preferred upgrade pack name")
	reconcileCmd.Flags().String("actor", "sherpa", "User attributed to created configuration revisions")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan an upgrade or downgrade sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging(cmd)

		store, ctx, packs, err := loadRun(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		preferred, _ := cmd.Flags().GetString("pack")
		selected, err := suggestPack(packs, ctx, preferred)
		if err != nil {
			return err
		}

		resolver := hosts.NewClusterResolver(ctx.Topology)
		p := planner.New(resolver, store, catalog.NewStatic())

		groups, err := p.CreateSequence(selected, ctx)
		if err != nil {
			return fmt.Errorf("failed to plan sequence: %w", err)
		}

		printPlan(ctx, selected, groups)
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Transition components and reconcile configurations for a run",
	Long: `Reconcile prepares a cluster for execution of a planned run: every
participating component host is moved into its in-progress upgrade
state, and service configurations are merged (upgrade) or reverted
(downgrade) for services whose run crosses a stack boundary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging(cmd)

		store, ctx, _, err := loadRun(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		actor, _ := cmd.Flags().GetString("actor")
		resolver := hosts.NewClusterResolver(ctx.Topology)
		p := planner.New(resolver, store, catalog.NewStatic())

		if err := p.UpdateDesiredRepositoriesAndConfigs(ctx, store, actor); err != nil {
			return err
		}

		fmt.Printf("✓ Cluster %s prepared for %s to %s\n",
			ctx.Cluster, ctx.Direction.Text(false), ctx.Repository.Version)
		return nil
	},
}

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List loaded upgrade packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		packDir, _ := cmd.Flags().GetString("pack-dir")
		packs, err := pack.LoadDir(packDir)
		if err != nil {
			return err
		}

		fmt.Printf("%-24s %-12s %-10s %-10s %s\n", "NAME", "KIND", "SOURCE", "TARGET", "GROUPS")
		for _, p := range packs {
			fmt.Printf("%-24s %-12s %-10s %-10s %d\n",
				p.Name, p.Kind, p.Source, p.Target, len(p.Groups))
		}
		return nil
	},
}

func initLogging(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("log-level")
	log.Init(log.Config{Level: log.Level(level)})
}

// loadRun opens the store and assembles the upgrade context from flags.
func loadRun(cmd *cobra.Command) (storage.Store, *types.UpgradeContext, []*pack.UpgradePack, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	packDir, _ := cmd.Flags().GetString("pack-dir")
	clusterName, _ := cmd.Flags().GetString("cluster")
	direction, _ := cmd.Flags().GetString("direction")
	kind, _ := cmd.Flags().GetString("kind")
	sourceVersion, _ := cmd.Flags().GetString("source-version")
	target, _ := cmd.Flags().GetString("target")
	scope, _ := cmd.Flags().GetString("scope")
	services, _ := cmd.Flags().GetStringSlice("services")

	if clusterName == "" || sourceVersion == "" || target == "" {
		return nil, nil, nil, fmt.Errorf("--cluster, --source-version, and --target are required")
	}

	targetRepo, err := parseTarget(target)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := storage.NewBoltStore(dataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	cluster, err := store.GetCluster(clusterName)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	packs, err := pack.LoadDir(packDir)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	if len(services) == 0 {
		for _, svc := range cluster.Services {
			services = append(services, svc.Name)
		}
	}

	sourceRepo := types.RepositoryVersion{Stack: cluster.CurrentStack, Version: sourceVersion}

	ctx := &types.UpgradeContext{
		Cluster:    clusterName,
		Direction:  types.Direction(direction),
		Kind:       types.UpgradeKind(kind),
		Scope:      types.Scope(scope),
		Topology:   cluster,
		Repository: targetRepo,
		Supported:  services,
		Source:     make(map[string]types.RepositoryVersion),
		Target:     make(map[string]types.RepositoryVersion),
	}
	for _, svc := range services {
		ctx.Source[svc] = sourceRepo
		ctx.Target[svc] = targetRepo
	}

	return store, ctx, packs, nil
}

// suggestPack selects the pack for the run. Downgrades are planned with
// the pack of the stack being left, so the lookup key follows the source
// side of the run.
func suggestPack(packs []*pack.UpgradePack, ctx *types.UpgradeContext, preferred string) (*pack.UpgradePack, error) {
	stack := ctx.Repository.Stack
	if ctx.Direction.IsDowngrade() {
		stack = ctx.Topology.CurrentStack
	}
	return pack.Suggest(packs, stack, ctx.Kind, preferred)
}

// parseTarget splits the STACK:version flag form.
func parseTarget(s string) (types.RepositoryVersion, error) {
	stackPart, version, ok := strings.Cut(s, ":")
	if !ok {
		return types.RepositoryVersion{}, fmt.Errorf("invalid target %q, expected STACK:version", s)
	}
	stack, err := types.ParseStackID(stackPart)
	if err != nil {
		return types.RepositoryVersion{}, err
	}
	return types.RepositoryVersion{Stack: stack, Version: version}, nil
}

func printPlan(ctx *types.UpgradeContext, selected *pack.UpgradePack, groups []*planner.UpgradeGroupHolder) {
	fmt.Printf("Plan: %s %s %s (pack %s)\n",
		ctx.Direction.Text(true), ctx.Direction.Preposition(),
		ctx.Repository.Version, selected.Name)
	fmt.Println()

	for _, group := range groups {
		flags := []string{}
		if group.Skippable {
			flags = append(flags, "skippable")
		}
		if group.AllowRetry {
			flags = append(flags, "retry")
		}
		fmt.Printf("Group %s (%s)\n", group.Name, strings.Join(flags, ", "))
		for i, stage := range group.Stages {
			fmt.Printf("  Stage %d: %s\n", i, stage.Text)
			for _, task := range stage.Tasks {
				for _, t := range task.Tasks {
					fmt.Printf("    %-13s %s/%s on %s\n",
						t.Kind, task.Service, task.Component, strings.Join(task.Hosts, ", "))
				}
			}
		}
	}

	if unhealthy := ctx.UnhealthyHosts(); len(unhealthy) > 0 {
		fmt.Println()
		fmt.Printf("Warning: unhealthy hosts in plan: %s\n", strings.Join(unhealthy, ", "))
	}
}
