// Package connectors holds the set of payment connectors compiled into the gateway.
package connectors

import (
	"fmt"
	"sort"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/archipel"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/bluesnap"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/deutschebank"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/nexixpay"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/novalnet"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/payme"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/trustpay"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/worldpayxml"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/zsl"
)

// UnknownConnectorError is returned when a name matches no registered connector.
type UnknownConnectorError struct {
	Name string
}

func (e *UnknownConnectorError) Error() string {
	return fmt.Sprintf("unknown connector %q", e.Name)
}

// Registry maps connector names to implementations. It is filled once by
// NewRegistry and only read afterwards, so it needs no locking.
type Registry struct {
	byName map[string]connector.Connector
	names  []string
}

// Default returns a registry with every built-in connector.
func Default() (*Registry, error) {
	return NewRegistry(
		archipel.New(),
		bluesnap.New(),
		deutschebank.New(),
		nexixpay.New(),
		novalnet.New(),
		payme.New(),
		trustpay.New(),
		worldpayxml.New(),
		zsl.New(),
	)
}

func NewRegistry(list ...connector.Connector) (*Registry, error) {
	r := &Registry{byName: make(map[string]connector.Connector, len(list))}
	for _, c := range list {
		id := c.ID()
		if _, dup := r.byName[id]; dup {
			return nil, fmt.Errorf("connector %q registered twice", id)
		}
		r.byName[id] = c
		r.names = append(r.names, id)
	}
	sort.Strings(r.names)
	return r, nil
}

func (r *Registry) Get(name string) (connector.Connector, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, &UnknownConnectorError{Name: name}
	}
	return c, nil
}

// Names returns the registered connector names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// List returns the connectors ordered by name.
func (r *Registry) List() []connector.Connector {
	out := make([]connector.Connector, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}
