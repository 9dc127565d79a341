// Command single-thing-demo serves one lamp Thing with an "on" and a
// "brightness" property, a "fade" action and an "overheated" event.
//
// Ported from the original webthing-rust single-thing example: FadeAction's
// perform_action becomes the PerformFunc performFade, run on its own
// goroutine, and the Generator's match on action name becomes a name
// comparison in lampGenerator.Generate.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/wostzone/webthing-go/pkg/config"
	"github.com/wostzone/webthing-go/pkg/logging"
	"github.com/wostzone/webthing-go/pkg/thing"
	"github.com/wostzone/webthing-go/pkg/wotserver"

	"github.com/sirupsen/logrus"
)

// lampGenerator builds the "fade" action; any other name is unknown.
type lampGenerator struct{}

func (lampGenerator) Generate(t *thing.Thing, name string, input map[string]any) (thing.PerformFunc, thing.CancelFunc, error) {
	if name != "fade" {
		return nil, nil, thing.ErrActionTypeNotFound
	}
	return performFade, nil, nil
}

// performFade sleeps for the requested duration, then applies the requested
// brightness, emits an overheated event, and finishes the action — mirroring
// FadeAction::perform_action's thread::spawn body.
func performFade(a *thing.Action) {
	durationMS, _ := a.GetInput()["duration"].(int)
	if durationMS <= 0 {
		if f, ok := a.GetInput()["duration"].(float64); ok {
			durationMS = int(f)
		}
	}
	time.Sleep(time.Duration(durationMS) * time.Millisecond)

	owner := a.GetThing()
	if owner == nil {
		return
	}

	brightness := a.GetInput()["brightness"]
	if err := owner.SetProperty("brightness", brightness); err != nil {
		logrus.Warnf("single-thing-demo: fade failed to set brightness: %s", err)
	}
	owner.AddEvent(thing.NewEvent("overheated", 102))

	if err := owner.FinishAction(a.GetName(), a.GetID()); err != nil {
		logrus.Warnf("single-thing-demo: fade failed to finish: %s", err)
	}
}

func makeLamp() *thing.Thing {
	lamp := thing.NewThing("urn:dev:ops:my-lamp-1234", "My Lamp",
		[]string{"OnOffSwitch", "Light"}, "A web connected lamp")

	lamp.AddProperty(thing.NewProperty("on", true, nil, map[string]any{
		"@type":       "OnOffProperty",
		"title":       "On/Off",
		"type":        "boolean",
		"description": "Whether the lamp is turned on",
	}))
	lamp.AddProperty(thing.NewProperty("brightness", 50, nil, map[string]any{
		"@type":       "BrightnessProperty",
		"title":       "Brightness",
		"type":        "integer",
		"description": "The level of light from 0-100",
		"minimum":     0,
		"maximum":     100,
		"unit":        "percent",
	}))

	lamp.AddAvailableAction("fade", map[string]any{
		"title":       "Fade",
		"description": "Fade the lamp to a given level",
		"input": map[string]any{
			"type":     "object",
			"required": []any{"brightness", "duration"},
			"properties": map[string]any{
				"brightness": map[string]any{"type": "integer", "minimum": 0, "maximum": 100, "unit": "percent"},
				"duration":   map[string]any{"type": "integer", "minimum": 1, "unit": "milliseconds"},
			},
		},
	})
	lamp.AddAvailableEvent("overheated", map[string]any{
		"description": "The lamp has exceeded its safe operating temperature",
		"type":        "number",
		"unit":        "degree celsius",
	})

	return lamp
}

func main() {
	if err := logging.SetLogging("debug", ""); err != nil {
		panic(err)
	}

	cfg := config.NewDefaultConfig()
	cfg.Port = 8888

	// Serving more than one Thing? Use thing.Multiple(things, deviceName)
	// instead; the lamp's own title is broadcast via mDNS in the single case.
	server := wotserver.NewServer(thing.Single(makeLamp()), cfg, lampGenerator{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logrus.Fatalf("single-thing-demo: server exited: %s", err)
	}
}
