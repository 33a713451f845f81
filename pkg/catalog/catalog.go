package catalog

import (
	"fmt"
	"strings"

	"github.com/alpinehq/sherpa/pkg/types"
)

// Catalog is the read-only stack metadata collaborator: display names for
// rendering and whether a component advertises its own version.
type Catalog interface {
	ServiceDisplayName(stack types.StackID, service string) (string, error)
	ComponentDisplayName(stack types.StackID, service, component string) (string, error)
	IsVersionAdvertised(stack types.StackID, service, component string) (bool, error)
}

// ComponentInfo describes one component of a service on a stack.
type ComponentInfo struct {
	DisplayName       string
	VersionAdvertised bool
}

// ServiceInfo describes one service on a stack.
type ServiceInfo struct {
	DisplayName string
	Components  map[string]ComponentInfo
}

// StaticCatalog implements Catalog over an in-memory table, keyed by
// stack then service. Lookups are case-insensitive on service and
// component names.
type StaticCatalog struct {
	services map[string]map[string]ServiceInfo
}

// NewStatic creates an empty static catalog.
func NewStatic() *StaticCatalog {
	return &StaticCatalog{services: make(map[string]map[string]ServiceInfo)}
}

// AddService registers service metadata for a stack.
func (c *StaticCatalog) AddService(stack types.StackID, service string, info ServiceInfo) {
	key := stack.String()
	if c.services[key] == nil {
		c.services[key] = make(map[string]ServiceInfo)
	}
	c.services[key][strings.ToUpper(service)] = info
}

func (c *StaticCatalog) service(stack types.StackID, service string) (ServiceInfo, error) {
	info, ok := c.services[stack.String()][strings.ToUpper(service)]
	if !ok {
		return ServiceInfo{}, fmt.Errorf("service %s not found on stack %s", service, stack)
	}
	return info, nil
}

// ServiceDisplayName returns the display name of a service.
func (c *StaticCatalog) ServiceDisplayName(stack types.StackID, service string) (string, error) {
	info, err := c.service(stack, service)
	if err != nil {
		return "", err
	}
	return info.DisplayName, nil
}

// ComponentDisplayName returns the display name of a component.
func (c *StaticCatalog) ComponentDisplayName(stack types.StackID, service, component string) (string, error) {
	info, err := c.service(stack, service)
	if err != nil {
		return "", err
	}
	ci, ok := info.Components[strings.ToUpper(component)]
	if !ok {
		return "", fmt.Errorf("component %s/%s not found on stack %s", service, component, stack)
	}
	return ci.DisplayName, nil
}

// IsVersionAdvertised reports whether a component reports its own version.
func (c *StaticCatalog) IsVersionAdvertised(stack types.StackID, service, component string) (bool, error) {
	info, err := c.service(stack, service)
	if err != nil {
		return false, err
	}
	ci, ok := info.Components[strings.ToUpper(component)]
	if !ok {
		return false, fmt.Errorf("component %s/%s not found on stack %s", service, component, stack)
	}
	return ci.VersionAdvertised, nil
}
