// Package query defines the per-query context handed to function factories.
// The registry never inspects it; factories read settings and shared
// resources from it while constructing their resolvers.
package query

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Settings holds the query-level settings that affect function construction.
type Settings struct {
	// Timezone is an IANA location name. Empty means UTC.
	Timezone string
}

// Dictionary is a read-only key/value lookup table shared across queries.
type Dictionary map[string]cty.Value

// Context is the execution context of a single query.
type Context struct {
	settings     Settings
	now          func() time.Time
	dictionaries map[string]Dictionary
}

// Option configures a Context.
type Option func(*Context)

// WithClock overrides the clock used by time functions.
func WithClock(now func() time.Time) Option {
	return func(c *Context) {
		c.now = now
	}
}

// WithDictionaries attaches shared dictionaries to the context. The maps are
// not copied and must not be modified afterwards.
func WithDictionaries(dicts map[string]Dictionary) Option {
	return func(c *Context) {
		c.dictionaries = dicts
	}
}

// NewContext creates a query context.
func NewContext(settings Settings, opts ...Option) *Context {
	c := &Context{
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings returns the query settings.
func (c *Context) Settings() Settings {
	return c.settings
}

// Now returns the current time according to the context clock.
func (c *Context) Now() time.Time {
	return c.now()
}

// Location resolves the configured timezone.
func (c *Context) Location() (*time.Location, error) {
	if c.settings.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.settings.Timezone)
}

// Dictionaries returns the shared dictionaries, or nil when none are attached.
func (c *Context) Dictionaries() map[string]Dictionary {
	return c.dictionaries
}
