package cmds

import (
	"context"

	"github.com/go-go-golems/teamchat/pkg/events"
	"github.com/go-go-golems/teamchat/pkg/generation"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/go-go-golems/teamchat/pkg/session"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// App holds the collaborators opened from Settings.
type App struct {
	Settings  *Settings
	Store     *store.Store
	Catalog   *personas.Catalog
	Generator generation.Generator
}

type AppOption func(*appOptions)

type appOptions struct {
	withoutGenerator bool
	requireGenerator bool
}

// WithoutGenerator skips creating the generator, for commands that only read
// the store.
func WithoutGenerator() AppOption {
	return func(o *appOptions) {
		o.withoutGenerator = true
	}
}

// RequireGenerator makes a misconfigured provider an error instead of a
// warning.
func RequireGenerator() AppOption {
	return func(o *appOptions) {
		o.requireGenerator = true
	}
}

// OpenApp opens the store and the persona catalog, and creates the generator.
// A generator that cannot be created is logged and left nil unless
// RequireGenerator is given.
func OpenApp(ctx context.Context, settings *Settings, options ...AppOption) (*App, error) {
	opts := &appOptions{}
	for _, o := range options {
		o(opts)
	}

	catalog, err := personas.Load(settings.PersonasFile)
	if err != nil {
		return nil, err
	}

	medium, err := store.OpenMedium(settings.Store)
	if err != nil {
		return nil, errors.Wrap(err, "could not open conversation store")
	}

	ret := &App{
		Settings: settings,
		Store:    store.New(medium),
		Catalog:  catalog,
	}

	if !opts.withoutGenerator {
		g, err := generation.New(ctx, settings.Generation)
		if err != nil {
			if opts.requireGenerator {
				_ = ret.Store.Close()
				return nil, err
			}
			log.Warn().Err(err).Msg("No generator available, messages cannot be sent")
		} else {
			ret.Generator = g
		}
	}

	return ret, nil
}

// NewController creates a session controller on the app's store.
func (a *App) NewController(sink events.Sink) *session.Controller {
	if sink == nil {
		sink = events.NullSink{}
	}
	return session.New(a.Store, a.Catalog, a.Generator, session.WithSink(sink))
}

func (a *App) Close() error {
	if a.Generator != nil {
		if err := generation.Close(a.Generator); err != nil {
			log.Warn().Err(err).Msg("Could not close generator")
		}
	}
	return a.Store.Close()
}
