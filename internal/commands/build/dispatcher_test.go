package buildcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-pagination/internal/generator"
	"github.com/goliatone/go-pagination/internal/runtimeconfig"
)

func TestDispatchBuildSiteRetriesTransientFailures(t *testing.T) {
	attempts := 0
	factory := func(runtimeconfig.Config) (generator.Service, error) {
		return &fakeGeneratorService{
			buildFunc: func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
				attempts++
				if attempts == 1 {
					return nil, errors.New("output directory busy")
				}
				return &generator.BuildResult{Written: 3}, nil
			},
		}, nil
	}

	sub := dispatcher.SubscribeCommand(NewBuildSiteHandler(quietConfig(), factory, nil), runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	var envelopes []ResultEnvelope
	cmd := loadBuildFixture(t, "build_basic.json")
	cmd.ResultCallback = func(env ResultEnvelope) {
		envelopes = append(envelopes, env)
	}

	if err := dispatcher.Dispatch(context.Background(), cmd); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 build attempts, got %d", attempts)
	}
	if len(envelopes) != 2 {
		t.Fatalf("expected one callback per attempt, got %d", len(envelopes))
	}
	if envelopes[0].Err == nil {
		t.Fatal("expected the first attempt to report its failure")
	}
	last := envelopes[1]
	if last.Err != nil || last.Result == nil || last.Result.Written != 3 {
		t.Fatalf("expected successful final envelope, got %+v", last)
	}
}

func TestDispatchBuildSiteRejectsInvalidCommand(t *testing.T) {
	called := false
	factory := func(runtimeconfig.Config) (generator.Service, error) {
		called = true
		return &fakeGeneratorService{}, nil
	}

	sub := dispatcher.SubscribeCommand(NewBuildSiteHandler(quietConfig(), factory, nil))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), loadBuildFixture(t, "build_invalid_path.json")); err == nil {
		t.Fatal("expected validation error from dispatch")
	}
	if called {
		t.Fatal("expected invalid command to never reach the generator")
	}
}
