package buildcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-pagination/internal/commands"
	"github.com/goliatone/go-pagination/internal/di"
	"github.com/goliatone/go-pagination/internal/generator"
	"github.com/goliatone/go-pagination/internal/runtimeconfig"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// ErrServiceUnavailable is returned when the factory produces no generator.
var ErrServiceUnavailable = errors.New("build command: generator service unavailable")

// ServiceFactory assembles a generator for one command execution.
type ServiceFactory func(cfg runtimeconfig.Config) (generator.Service, error)

// ContainerFactory builds generators through the DI container.
func ContainerFactory(opts ...di.Option) ServiceFactory {
	return func(cfg runtimeconfig.Config) (generator.Service, error) {
		container, err := di.NewContainer(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return container.GeneratorService(), nil
	}
}

// BuildSiteHandler runs generator builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler that applies each command's
// overrides to base before building.
func NewBuildSiteHandler(base runtimeconfig.Config, factory ServiceFactory, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)
	if factory == nil {
		factory = ContainerFactory()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		cfg := msg.Apply(base)
		envelope := ResultEnvelope{
			Config: cfg,
			Metadata: map[string]any{
				"operation": "build",
				"dry_run":   msg.DryRun,
			},
		}

		svc, err := factory(cfg)
		if err == nil && svc == nil {
			err = ErrServiceUnavailable
		}
		if err != nil {
			envelope.Err = err
			invokeCallback(msg.ResultCallback, envelope)
			return err
		}

		result, err := svc.Build(ctx, generator.BuildOptions{DryRun: msg.DryRun})
		envelope.Result = result
		envelope.Err = err
		invokeCallback(msg.ResultCallback, envelope)
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithTimeout[BuildSiteCommand](0),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.ContentDir != "" {
				fields["content_dir"] = msg.ContentDir
			}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.Iteratee != "" {
				fields["iteratee"] = msg.Iteratee
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InspectSiteHandler paginates content in memory without rendering.
type InspectSiteHandler struct {
	inner *commands.Handler[InspectSiteCommand]
}

// NewInspectSiteHandler constructs a handler that plans builds for inspection.
func NewInspectSiteHandler(base runtimeconfig.Config, factory ServiceFactory, logger interfaces.Logger, opts ...commands.HandlerOption[InspectSiteCommand]) *InspectSiteHandler {
	baseLogger := commands.EnsureLogger(logger)
	if factory == nil {
		factory = ContainerFactory()
	}

	exec := func(ctx context.Context, msg InspectSiteCommand) error {
		svc, err := factory(msg.Apply(base))
		if err == nil && svc == nil {
			err = ErrServiceUnavailable
		}
		if err != nil {
			invokeInspectCallback(msg.ResultCallback, InspectEnvelope{Err: err})
			return err
		}

		plan, err := svc.Plan(ctx)
		invokeInspectCallback(msg.ResultCallback, InspectEnvelope{
			Plan:   plan,
			Chains: plan.Chains(),
			Err:    err,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[InspectSiteCommand]{
		commands.WithLogger[InspectSiteCommand](baseLogger),
		commands.WithOperation[InspectSiteCommand]("site.inspect"),
		commands.WithTelemetry(commands.DefaultTelemetry[InspectSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InspectSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InspectSiteCommand].
func (h *InspectSiteHandler) Execute(ctx context.Context, msg InspectSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}

func invokeInspectCallback(cb InspectCallback, envelope InspectEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
