package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/c360/webkit/dispatch"
	"github.com/c360/webkit/errors"
	"github.com/c360/webkit/extender"
)

// The demo application: a page greeter whose rendering type can be
// replaced through the extension manager, plus a visit event with a
// logging subscriber. Real applications register their own types the
// same way.

// Greeter renders the default greeting.
type Greeter struct{}

// Render returns the greeting body.
func (Greeter) Render(page string) string {
	return fmt.Sprintf("welcome to %s", page)
}

// LoudGreeter replaces Greeter with an upper-case variant.
type LoudGreeter struct {
	Greeter
}

// Render returns the greeting body.
func (LoudGreeter) Render(page string) string {
	return fmt.Sprintf("WELCOME TO %s!", page)
}

// VisitRecorded is published whenever a page visit is reported.
type VisitRecorded struct {
	extender.Event
	Page string `json:"page"`
}

// VisitLogger subscribes to VisitRecorded and logs each visit.
type VisitLogger struct {
	extender.Subscriber[VisitRecorded]
}

// HandleEvent implements extender.Handler.
func (VisitLogger) HandleEvent(_ context.Context, event any) error {
	visit, ok := event.(*VisitRecorded)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	slog.Info("page visited", "page", visit.Page)
	return nil
}

// visitCount tracks visits delivered to VisitCounter instances.
var visitCount atomic.Int64

// VisitCounter subscribes to VisitRecorded and keeps a running total.
type VisitCounter struct {
	extender.Subscriber[VisitRecorded]
}

// HandleEvent implements extender.Handler.
func (VisitCounter) HandleEvent(context.Context, any) error {
	visitCount.Add(1)
	return nil
}

// registerDemoExtensions installs the demo types into the manager.
func registerDemoExtensions(manager *extender.Manager) error {
	if err := manager.RegisterExtension(extender.TypeFor[LoudGreeter]()); err != nil {
		return err
	}
	return manager.RegisterSubscribers(extender.TypesOf(
		VisitLogger{},
		VisitCounter{},
	))
}

// registerDemoActions installs the demo dispatch surface.
func registerDemoActions(
	registry *dispatch.Registry,
	manager *extender.Manager,
	publisher *extender.Publisher,
) error {
	actions := []*dispatch.Action{
		{
			Controller:  "system",
			Name:        "info",
			Description: "Report build and registry information",
			Handler: func(context.Context, json.RawMessage) (any, error) {
				return map[string]any{
					"service":  appName,
					"version":  Version,
					"bindings": len(manager.TypeBindings()),
				}, nil
			},
		},
		{
			Controller:  "extensions",
			Name:        "bindings",
			Description: "List base type to extension type bindings",
			Handler: func(context.Context, json.RawMessage) (any, error) {
				bindings := make(map[string]string)
				for base, ext := range manager.TypeBindings() {
					bindings[base.String()] = ext.String()
				}
				return bindings, nil
			},
		},
		{
			Controller:  "pages",
			Name:        "greet",
			Description: "Render a greeting using the registered Greeter extension",
			Handler: func(_ context.Context, body json.RawMessage) (any, error) {
				var req struct {
					Page string `json:"page"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, errors.WrapInvalid(err, "pages", "greet", "body decode")
				}

				greeting := Greeter{}.Render(req.Page)
				if inst, ok := manager.NewExtension(extender.TypeFor[Greeter]()); ok {
					if g, ok := inst.(interface{ Render(string) string }); ok {
						greeting = g.Render(req.Page)
					}
				}
				return map[string]string{"greeting": greeting}, nil
			},
		},
		{
			Controller:  "pages",
			Name:        "visit",
			Description: "Record a page visit and notify subscribers",
			RequireAuth: true,
			Handler: func(ctx context.Context, body json.RawMessage) (any, error) {
				var req struct {
					Page string `json:"page"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, errors.WrapInvalid(err, "pages", "visit", "body decode")
				}

				if err := publisher.Publish(ctx, &VisitRecorded{Page: req.Page}); err != nil {
					return nil, err
				}

				subs, _ := manager.SubscribersFor(extender.TypeFor[VisitRecorded]())
				return map[string]any{"notified": len(subs)}, nil
			},
		},
		{
			Controller:  "pages",
			Name:        "stats",
			Description: "Report the running visit total",
			Handler: func(context.Context, json.RawMessage) (any, error) {
				return map[string]int64{"visits": visitCount.Load()}, nil
			},
		},
	}

	for _, action := range actions {
		if err := registry.Register(action); err != nil {
			return err
		}
	}
	return nil
}
