package planner

import (
	"regexp"
	"strings"

	"github.com/alpinehq/sherpa/pkg/types"
)

// placeholderRegex matches tokens such as {{hosts.master}} and
// {{hdfs-site/dfs.namenode.http-address}}.
var placeholderRegex = regexp.MustCompile(`\{\{.*?\}\}`)

// Recognized fixed tokens. Anything else is delegated to the config
// store's placeholder lookup.
const (
	tokenHostsAll              = "{{hosts.all}}"
	tokenHostsMaster           = "{{hosts.master}}"
	tokenVersion               = "{{version}}"
	tokenDirectionText         = "{{direction.text}}"
	tokenDirectionTextProper   = "{{direction.text.proper}}"
	tokenDirectionPast         = "{{direction.past}}"
	tokenDirectionPastProper   = "{{direction.past.proper}}"
	tokenDirectionPlural       = "{{direction.plural}}"
	tokenDirectionPluralProper = "{{direction.plural.proper}}"
	tokenDirectionVerb         = "{{direction.verb}}"
	tokenDirectionVerbProper   = "{{direction.verb.proper}}"
)

// postProcess rewrites every piece of display text in a planned group:
// the title, stage texts, task summaries, and the message lines of
// manual tasks. Host tokens need a service/component context and are
// only rendered for manual task messages.
func (p *Planner) postProcess(ctx *types.UpgradeContext, holder *UpgradeGroupHolder) {
	holder.Title = p.tokenReplace(ctx, holder.Title, "", "")

	for _, stage := range holder.Stages {
		if stage.Text != "" {
			stage.Text = p.tokenReplace(ctx, stage.Text, "", "")
		}

		for _, wrapper := range stage.Tasks {
			for _, task := range wrapper.Tasks {
				if task.Summary != "" {
					task.Summary = p.tokenReplace(ctx, task.Summary, "", "")
				}

				if task.Kind == types.TaskKindManual {
					for i, message := range task.Messages {
						task.Messages[i] = p.tokenReplace(ctx, message, wrapper.Service, wrapper.Component)
					}
				}
			}
		}
	}
}

// tokenReplace substitutes every resolvable {{...}} token in source.
// Replacement is plain textual substitution: each distinct token is
// replaced everywhere it occurs. Tokens that do not resolve are left
// untouched.
func (p *Planner) tokenReplace(ctx *types.UpgradeContext, source, service, component string) string {
	result := source

	for _, token := range placeholderRegex.FindAllString(source, -1) {
		var value string
		resolved := false

		switch token {
		case tokenHostsAll:
			if service != "" && component != "" {
				if ht, err := p.resolver.MasterAndHosts(service, component); err == nil && ht != nil {
					value = strings.Join(ht.Hosts, ", ")
					resolved = true
				}
			}
		case tokenHostsMaster:
			if service != "" && component != "" {
				if ht, err := p.resolver.MasterAndHosts(service, component); err == nil && ht != nil && ht.Master != "" {
					value = ht.Master
					resolved = true
				}
			}
		case tokenVersion:
			value = ctx.Repository.Version
			resolved = true
		case tokenDirectionText, tokenDirectionTextProper:
			value = ctx.Direction.Text(token == tokenDirectionTextProper)
			resolved = true
		case tokenDirectionPast, tokenDirectionPastProper:
			value = ctx.Direction.Past(token == tokenDirectionPastProper)
			resolved = true
		case tokenDirectionPlural, tokenDirectionPluralProper:
			value = ctx.Direction.Plural(token == tokenDirectionPluralProper)
			resolved = true
		case tokenDirectionVerb, tokenDirectionVerbProper:
			value = ctx.Direction.Verb(token == tokenDirectionVerbProper)
			resolved = true
		default:
			if v, ok, err := p.config.PlaceholderValue(ctx.Cluster, token); err == nil && ok {
				value = v
				resolved = true
			}
		}

		if resolved {
			result = strings.ReplaceAll(result, token, value)
		}
	}

	return result
}
