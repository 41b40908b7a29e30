package sdk

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/config"
	"github.com/shamank/ocean-c2d-go/pkg/provider"
)

// Healthcheck defines the reachability checks against the remote services
// of a session.
type Healthcheck interface {
	// Provider fetches the Provider root document.
	Provider(ctx context.Context) (*provider.Info, error)
	// Aquarius pings the metadata cache.
	Aquarius(ctx context.Context) error
	// Check runs both checks concurrently and returns every failure.
	Check(ctx context.Context) error
	// Log runs both checks and logs the outcome without failing.
	Log(ctx context.Context)
}

// healthcheckClient is a concrete implementation of Healthcheck interface.
type healthcheckClient struct {
	provider Provider
	aquarius Aquarius
	config   *config.Config
}

func newHealthcheckClient(p Provider, a Aquarius, cfg *config.Config) Healthcheck {
	return &healthcheckClient{provider: p, aquarius: a, config: cfg}
}

func (hc *healthcheckClient) Provider(ctx context.Context) (*provider.Info, error) {
	info, err := hc.provider.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider heartbeat failed: %w", err)
	}
	return info, nil
}

func (hc *healthcheckClient) Aquarius(ctx context.Context) error {
	if err := hc.aquarius.Ping(ctx); err != nil {
		return fmt.Errorf("aquarius heartbeat failed: %w", err)
	}
	return nil
}

func (hc *healthcheckClient) Log(ctx context.Context) {
	if info, err := hc.Provider(ctx); err != nil {
		zap.L().Warn("provider unreachable", zap.String("url", hc.provider.URL()), zap.Error(err))
	} else {
		fields := []zap.Field{zap.String("url", hc.provider.URL()), zap.String("version", info.Version)}
		if hc.config != nil && hc.config.Debug {
			fields = append(fields, zap.String("providerAddress", info.ProviderAddress), zap.Int64s("chains", info.ChainIDs))
		}
		zap.L().Info("provider reachable", fields...)
	}

	if err := hc.Aquarius(ctx); err != nil {
		zap.L().Warn("aquarius unreachable", zap.String("url", hc.aquarius.URL()), zap.Error(err))
	} else {
		zap.L().Info("aquarius reachable", zap.String("url", hc.aquarius.URL()))
	}
}

func (hc *healthcheckClient) Check(ctx context.Context) error {
	var g multierror.Group
	g.Go(func() error {
		_, err := hc.Provider(ctx)
		return err
	})
	g.Go(func() error { return hc.Aquarius(ctx) })
	return g.Wait().ErrorOrNil()
}
