// Package commands registers the build command handlers with host-provided
// go-command registries and dispatchers.
package commands

import (
	"errors"

	"github.com/goliatone/go-assemble/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or other transports.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// ErrNoHandlers is returned when the container exposes no command handlers.
var ErrNoHandlers = errors.New("commands: no command handlers registered; ensure the generator is configured")

// RegisterContainerCommands registers the build, diff and clean handlers built
// by the container with the optional registry and dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	handlers := container.StaticHandlers()
	if handlers == nil {
		return result, ErrNoHandlers
	}
	if handlers.Build != nil {
		register(handlers.Build)
	}
	if handlers.Diff != nil {
		register(handlers.Diff)
	}
	if handlers.Clean != nil {
		register(handlers.Clean)
	}

	if len(result.Handlers) == 0 {
		return result, ErrNoHandlers
	}
	return result, errs
}
