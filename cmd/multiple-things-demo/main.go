// Command multiple-things-demo serves two Things behind one server: a
// dimmable light (with a "fade" action) and a humidity sensor whose "level"
// property is updated out of band every few seconds.
//
// Ported from the original webthing-rust multiple-things example: its
// rand-driven background thread becomes a goroutine calling
// Thing.NotifyPropertyChanged, and ValueForwarder becomes
// thing.ValueForwarder.
package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/wostzone/webthing-go/pkg/config"
	"github.com/wostzone/webthing-go/pkg/logging"
	"github.com/wostzone/webthing-go/pkg/thing"
	"github.com/wostzone/webthing-go/pkg/wotserver"

	"github.com/sirupsen/logrus"
)

// lightGenerator builds the "fade" action on the light Thing only.
type lightGenerator struct{}

func (lightGenerator) Generate(t *thing.Thing, name string, input map[string]any) (thing.PerformFunc, thing.CancelFunc, error) {
	if name != "fade" {
		return nil, nil, thing.ErrActionTypeNotFound
	}
	return performFade, nil, nil
}

func performFade(a *thing.Action) {
	durationMS := asMillis(a.GetInput()["duration"])
	time.Sleep(time.Duration(durationMS) * time.Millisecond)

	owner := a.GetThing()
	if owner == nil {
		return
	}
	if err := owner.SetProperty("brightness", a.GetInput()["brightness"]); err != nil {
		logrus.Warnf("multiple-things-demo: fade failed to set brightness: %s", err)
	}
	owner.AddEvent(thing.NewEvent("overheated", 102))
	if err := owner.FinishAction(a.GetName(), a.GetID()); err != nil {
		logrus.Warnf("multiple-things-demo: fade failed to finish: %s", err)
	}
}

func asMillis(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// loggingForwarder prints every value it's asked to apply, standing in for
// the original example's println!-based OnValueForwarder/
// BrightnessValueForwarder.
type loggingForwarder struct{ label string }

func (f loggingForwarder) SetValue(value any) (any, error) {
	logrus.Infof("multiple-things-demo: %s is now %v", f.label, value)
	return value, nil
}

func makeLight() *thing.Thing {
	light := thing.NewThing("urn:dev:ops:my-lamp-1234", "My Lamp",
		[]string{"OnOffSwitch", "Light"}, "A web connected lamp")

	light.AddProperty(thing.NewProperty("on", true, loggingForwarder{"On-State"}, map[string]any{
		"@type":       "OnOffProperty",
		"title":       "On/Off",
		"type":        "boolean",
		"description": "Whether the lamp is turned on",
	}))
	light.AddProperty(thing.NewProperty("brightness", 50, loggingForwarder{"Brightness"}, map[string]any{
		"@type":       "BrightnessProperty",
		"title":       "Brightness",
		"type":        "integer",
		"description": "The level of light from 0-100",
		"minimum":     0,
		"maximum":     100,
		"unit":        "percent",
	}))

	light.AddAvailableAction("fade", map[string]any{
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
	light.AddAvailableEvent("overheated", map[string]any{
		"description": "The lamp has exceeded its safe operating temperature",
		"type":        "number",
		"unit":        "degree celsius",
	})

	return light
}

func makeSensor() *thing.Thing {
	sensor := thing.NewThing("urn:dev:ops:my-humidity-sensor-1234", "My Humidity Sensor",
		[]string{"MultiLevelSensor"}, "A web connected humidity sensor")

	sensor.AddProperty(thing.NewProperty("level", 0, nil, map[string]any{
		"@type":       "LevelProperty",
		"title":       "Humidity",
		"type":        "number",
		"description": "The current humidity in %",
		"minimum":     0,
		"maximum":     100,
		"unit":        "percent",
		"readOnly":    true,
	}))

	return sensor
}

// runSensorLoop mimics a real sensor by nudging the humidity reading every
// few seconds, bypassing validation the way an out-of-band device update
// would.
func runSensorLoop(ctx context.Context, sensor *thing.Thing) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			newValue := 70.0 * rand.Float64() * (-0.5 + rand.Float64())
			if newValue < 0 {
				newValue = -newValue
			}
			logrus.Infof("multiple-things-demo: setting new humidity level: %v", newValue)
			if err := sensor.NotifyPropertyChanged("level", newValue); err != nil {
				logrus.Warnf("multiple-things-demo: humidity update failed: %s", err)
			}
		}
	}
}

func main() {
	if err := logging.SetLogging("debug", ""); err != nil {
		panic(err)
	}

	light := makeLight()
	sensor := makeSensor()

	cfg := config.NewDefaultConfig()
	cfg.Port = 8888

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runSensorLoop(ctx, sensor)

	server := wotserver.NewServer(
		thing.Multiple([]*thing.Thing{light, sensor}, "LightAndTempDevice"),
		cfg, lightGenerator{})

	if err := server.Start(ctx); err != nil {
		logrus.Fatalf("multiple-things-demo: server exited: %s", err)
	}
}
