package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ToolInfo describes a tool's tier and service.
type ToolInfo struct {
	Tier    string
	Service string
}

// TierConfig holds the tier configuration loaded from tool_tiers.yaml.
type TierConfig struct {
	Services map[string]ServiceTiers `yaml:"services"`
}

// ServiceTiers lists tools by tier within a service.
type ServiceTiers struct {
	Core     []string `yaml:"core"`
	Extended []string `yaml:"extended"`
	Complete []string `yaml:"complete"`
}

// LoadTiers reads and parses the tool tiers YAML file, returning a map of
// tool name -> ToolInfo for fast lookup during tool filtering.
func LoadTiers(path string) (map[string]ToolInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tier config %s: %w", path, err)
	}

	var tc TierConfig
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parsing tier config %s: %w", path, err)
	}

	tools := make(map[string]ToolInfo)
	for service, tiers := range tc.Services {
		for _, name := range tiers.Core {
			tools[name] = ToolInfo{Tier: "core", Service: service}
		}
		for _, name := range tiers.Extended {
			tools[name] = ToolInfo{Tier: "extended", Service: service}
		}
		for _, name := range tiers.Complete {
			tools[name] = ToolInfo{Tier: "complete", Service: service}
		}
	}

	return tools, nil
}

// TierLevel returns the numeric level for a tier name (higher = more inclusive).
func TierLevel(tier string) int {
	switch tier {
	case "core":
		return 1
	case "extended":
		return 2
	case "complete":
		return 3
	default:
		return 0
	}
}

// ResolveToolsFromTier returns the names of tools at or below the given tier
// that belong to one of the requested services, plus the narrowed service
// list: the requested services (in order) that actually contribute a tool at
// that tier. An empty service list means all services.
func ResolveToolsFromTier(tierMap map[string]ToolInfo, tier string, services []string) ([]string, []string) {
	level := TierLevel(tier)

	requested := make(map[string]bool, len(services))
	for _, s := range services {
		requested[s] = true
	}

	var toolNames []string
	contributing := make(map[string]bool)
	for name, info := range tierMap {
		if TierLevel(info.Tier) > level {
			continue
		}
		if len(services) > 0 && !requested[info.Service] {
			continue
		}
		toolNames = append(toolNames, name)
		contributing[info.Service] = true
	}
	sort.Strings(toolNames)

	var narrowed []string
	if len(services) > 0 {
		for _, s := range services {
			if contributing[s] {
				narrowed = append(narrowed, s)
			}
		}
	} else {
		for s := range contributing {
			narrowed = append(narrowed, s)
		}
		sort.Strings(narrowed)
	}

	return toolNames, narrowed
}

// ResolvePermissionsModeSelection narrows the requested services through the
// tool tier when one is set. Without a tier the request passes through
// unchanged and no tool-name filter applies. With a tier, only services that
// contribute a tool at that tier survive, and the returned set restricts
// registration to the named tools.
func ResolvePermissionsModeSelection(tierMap map[string]ToolInfo, services []string, tier string) ([]string, map[string]bool) {
	if tier == "" {
		return services, nil
	}

	toolNames, narrowed := ResolveToolsFromTier(tierMap, tier, services)
	filter := make(map[string]bool, len(toolNames))
	for _, name := range toolNames {
		filter[name] = true
	}
	return narrowed, filter
}
