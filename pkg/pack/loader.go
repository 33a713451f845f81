package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alpinehq/sherpa/pkg/types"
	"gopkg.in/yaml.v3"
)

// packFile is the YAML document shape of an upgrade pack. Flag fields use
// pointers so their defaults (allow_retry and auto_skip true, everything
// else false) survive omission.
type packFile struct {
	Name            string                            `yaml:"name"`
	Kind            types.UpgradeKind                 `yaml:"kind"`
	SourceStack     string                            `yaml:"source_stack"`
	TargetStack     string                            `yaml:"target_stack"`
	Groups          []groupFile                       `yaml:"groups"`
	DowngradeGroups []groupFile                       `yaml:"downgrade_groups,omitempty"`
	Processing      map[string]map[string][]types.Task `yaml:"processing,omitempty"`
}

type groupFile struct {
	Name         string             `yaml:"name"`
	Title        string             `yaml:"title"`
	Kind         GroupKind          `yaml:"kind,omitempty"`
	Scope        types.Scope        `yaml:"scope,omitempty"`
	Condition    *Condition         `yaml:"condition,omitempty"`
	Skippable    bool               `yaml:"skippable,omitempty"`
	AllowRetry   *bool              `yaml:"allow_retry,omitempty"`
	AutoSkip     *bool              `yaml:"auto_skip,omitempty"`
	ServiceCheck *bool              `yaml:"service_check,omitempty"`
	Function     types.TaskKind     `yaml:"function,omitempty"`
	Services     []orderServiceFile `yaml:"services"`
}

type orderServiceFile struct {
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"`
}

// Parse decodes and validates one upgrade pack document.
func Parse(data []byte) (*UpgradePack, error) {
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to decode upgrade pack: %w", err)
	}

	if pf.Name == "" {
		return nil, fmt.Errorf("upgrade pack has no name")
	}
	switch pf.Kind {
	case types.UpgradeKindRolling, types.UpgradeKindNonRolling, types.UpgradeKindHostOrdered:
	default:
		return nil, fmt.Errorf("upgrade pack %s: invalid kind %q", pf.Name, pf.Kind)
	}

	source, err := types.ParseStackID(pf.SourceStack)
	if err != nil {
		return nil, fmt.Errorf("upgrade pack %s: source stack: %w", pf.Name, err)
	}
	target, err := types.ParseStackID(pf.TargetStack)
	if err != nil {
		return nil, fmt.Errorf("upgrade pack %s: target stack: %w", pf.Name, err)
	}

	p := &UpgradePack{
		Name:   pf.Name,
		Kind:   pf.Kind,
		Source: source,
		Target: target,
	}

	p.Groups, err = convertGroups(pf.Name, pf.Groups)
	if err != nil {
		return nil, err
	}
	p.DowngradeGroups, err = convertGroups(pf.Name, pf.DowngradeGroups)
	if err != nil {
		return nil, err
	}

	p.Processing = make(map[string]map[string]*ProcessingComponent)
	for service, components := range pf.Processing {
		p.Processing[service] = make(map[string]*ProcessingComponent)
		for component, tasks := range components {
			pc := &ProcessingComponent{Name: component}
			for i := range tasks {
				t := tasks[i]
				pc.Tasks = append(pc.Tasks, &t)
			}
			p.Processing[service][component] = pc
		}
	}

	return p, nil
}

func convertGroups(packName string, files []groupFile) ([]*Grouping, error) {
	var groups []*Grouping
	for _, gf := range files {
		if gf.Name == "" {
			return nil, fmt.Errorf("upgrade pack %s: group has no name", packName)
		}

		kind := gf.Kind
		if kind == "" {
			kind = GroupKindStandard
		}
		if gf.Function != "" {
			switch gf.Function {
			case types.TaskKindStop, types.TaskKindStart, types.TaskKindRestart:
				kind = GroupKindFunction
			default:
				return nil, fmt.Errorf("upgrade pack %s: group %s: invalid function %q",
					packName, gf.Name, gf.Function)
			}
		}

		g := &Grouping{
			Name:         gf.Name,
			Title:        gf.Title,
			Kind:         kind,
			Scope:        gf.Scope,
			Condition:    gf.Condition,
			Skippable:    gf.Skippable,
			AllowRetry:   boolDefault(gf.AllowRetry, true),
			AutoSkip:     boolDefault(gf.AutoSkip, true),
			ServiceCheck: boolDefault(gf.ServiceCheck, true),
			Function:     gf.Function,
		}
		for _, sf := range gf.Services {
			g.Services = append(g.Services, OrderService{Name: sf.Name, Components: sf.Components})
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Load reads and parses one upgrade pack file.
func Load(path string) (*UpgradePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upgrade pack: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadDir loads every .yaml/.yml upgrade pack in a directory, sorted by
// file name for deterministic catalog order.
func LoadDir(dir string) ([]*UpgradePack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var packs []*UpgradePack
	for _, name := range names {
		p, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, nil
}
