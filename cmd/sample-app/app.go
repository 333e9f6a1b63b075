package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"primedata/internal/config"
	"primedata/internal/constants"
	"primedata/internal/logger"
	"primedata/internal/payload"
	"primedata/internal/session"
	"primedata/internal/transport"
	"primedata/pkg/circuitbreaker"
	"primedata/pkg/health"
	"primedata/pkg/metrics"
	"primedata/pkg/retry"
)

// sender is satisfied by both the plain transport client and its
// breaker-wrapped decorator.
type sender interface {
	Send(ctx context.Context, endpoint string, body []byte) error
	ProjectSettings(ctx context.Context) (map[string]interface{}, error)
}

type App struct {
	cfg *config.Config
	log logger.Logger

	store   *session.BadgerStore
	manager *session.Manager
	sender  sender
	limiter *rate.Limiter
	policy  retry.Policy
	server  *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{cfg: cfg, log: log}
}

func (a *App) Initialize(ctx context.Context) error {
	store, err := session.OpenBadgerStore(a.cfg.Session.StorePath, constants.SessionNamespace)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	a.store = store

	a.manager = session.NewManager(store, session.Config{
		AppName:     a.cfg.Session.AppName,
		SourceKey:   a.cfg.Endpoint.SourceKey,
		Context:     a.cfg.Session.Context,
		IdleTimeout: a.cfg.Session.IdleTimeout(),
	}, a.log)

	client := transport.New(transport.Config{
		Host:            a.cfg.Endpoint.Host,
		WriteKey:        a.cfg.Endpoint.WriteKey,
		SourceKey:       a.cfg.Endpoint.SourceKey,
		SettingsBaseURL: a.cfg.Endpoint.SettingsBaseURL,
		ConnectTimeout:  a.cfg.Endpoint.ConnectTimeout(),
		ReadTimeout:     a.cfg.Endpoint.ReadTimeout(),
		Gzip:            a.cfg.Endpoint.Gzip,
	}, a.log)

	metrics.RegisterTransportMetrics()
	metrics.RegisterSessionMetrics()

	if a.cfg.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
		cbCfg := circuitbreaker.DefaultConfig("analytics-upload")
		if a.cfg.CircuitBreaker.MaxRequests > 0 {
			cbCfg.MaxRequests = a.cfg.CircuitBreaker.MaxRequests
		}
		if a.cfg.CircuitBreaker.IntervalSeconds > 0 {
			cbCfg.Interval = time.Duration(a.cfg.CircuitBreaker.IntervalSeconds) * time.Second
		}
		if a.cfg.CircuitBreaker.TimeoutSeconds > 0 {
			cbCfg.Timeout = time.Duration(a.cfg.CircuitBreaker.TimeoutSeconds) * time.Second
		}
		a.sender = transport.NewBreakerClient(client, cbCfg)
	} else {
		a.sender = client
	}

	a.limiter = rate.NewLimiter(rate.Limit(defaultFloat(a.cfg.Dispatcher.RatePerSecond, 1)),
		defaultInt(a.cfg.Dispatcher.Burst, 1))
	a.policy = a.retryPolicy()

	a.initHTTPServer()
	return nil
}

func defaultFloat(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func (a *App) retryPolicy() retry.Policy {
	policy := retry.DefaultPolicy()
	if a.cfg.Dispatcher.MaxAttempts > 0 {
		policy.MaxAttempts = a.cfg.Dispatcher.MaxAttempts
	}
	if a.cfg.Dispatcher.InitialIntervalSeconds > 0 {
		policy.InitialInterval = time.Duration(a.cfg.Dispatcher.InitialIntervalSeconds) * time.Second
	}
	if a.cfg.Dispatcher.MaxIntervalSeconds > 0 {
		policy.MaxInterval = time.Duration(a.cfg.Dispatcher.MaxIntervalSeconds) * time.Second
	}
	return policy
}

func (a *App) initHTTPServer() {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewStoreChecker(a.store))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(h)
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := a.cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.dispatch(ctx)
	})

	return g.Wait()
}

// dispatch simulates the host application: one app-open event at start,
// then a demo screen event per tick. Retry and pacing policy live here,
// outside the analytics core.
func (a *App) dispatch(ctx context.Context) error {
	if err := a.manager.ReOpen(); err != nil {
		return err
	}
	if settings, err := a.sender.ProjectSettings(ctx); err != nil {
		a.log.Warnw("settings fetch failed", "error", err)
	} else {
		a.log.Infow("fetched remote settings", "keys", len(settings))
	}
	if err := a.sendAppOpen(ctx); err != nil {
		a.log.Errorw("app-open upload failed", "error", err)
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	screen := 0
	for {
		select {
		case <-ctx.Done():
			if err := a.manager.OnClose(); err != nil {
				a.log.Errorw("failed to persist close time", "error", err)
			}
			return ctx.Err()
		case <-ticker.C:
			screen++
			if err := a.sendScreenView(ctx, fmt.Sprintf("screen-%d", screen)); err != nil {
				a.log.Errorw("screen upload failed", "error", err)
			}
		}
	}
}

func (a *App) sendAppOpen(ctx context.Context) error {
	sessionID, err := a.manager.SessionID()
	if err != nil {
		return err
	}
	source, err := a.manager.Source()
	if err != nil {
		return err
	}

	builder := payload.NewContextBuilder().
		WithSessionID(sessionID).
		WithSource(source.ToMap()).
		WithScope(a.manager.Scope())
	if profileID, perr := a.manager.ProfileID(); perr == nil && profileID != "" {
		builder = builder.WithProfileID(profileID)
	}
	p, err := builder.Build()
	if err != nil {
		return err
	}
	return a.send(ctx, transport.EndpointContext, p)
}

func (a *App) sendScreenView(ctx context.Context, name string) error {
	sessionID, err := a.manager.SessionID()
	if err != nil {
		return err
	}
	p, err := payload.NewScreenBuilder().
		WithSessionID(sessionID).
		WithProperties(map[string]interface{}{"name": name}).
		Build()
	if err != nil {
		return err
	}
	return a.send(ctx, transport.EndpointSmile, p)
}

func (a *App) send(ctx context.Context, endpoint string, p json.Marshaler) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	return retry.Retry(ctx, a.policy, func() error {
		return a.sender.Send(ctx, endpoint, body)
	})
}

func (a *App) Shutdown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Errorw("failed to close session store", "error", err)
		}
	}
}
