// Package mqtttrigger is a Trigger handler factory that fires whenever a
// message arrives on a configured MQTT topic, using paho.mqtt.golang. The
// teacher repo lists this dependency in go.mod but never exercises it; here
// it is the concrete transport for home-automation triggers (a door sensor,
// a button, a schedule published by an external service).
package mqtttrigger

import (
	"context"
	"encoding/json"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rule/types"
	"rule/utils/maps"
)

// TypeUID is the system module type this factory claims.
const TypeUID = "mqttTrigger"

type configuration struct {
	Broker string `mapstructure:"broker"`
	Topic  string `mapstructure:"topic"`
	QoS    byte   `mapstructure:"qos"`
}

// Factory produces mqttTrigger handlers, one MQTT client connection per
// handler. newClient is overridable so tests can substitute a fake client
// without reaching a real broker.
type Factory struct {
	newClient func(opts *mqtt.ClientOptions) mqtt.Client
}

func New() *Factory {
	return &Factory{newClient: mqtt.NewClient}
}

var _ types.HandlerFactory = (*Factory)(nil)

func (f *Factory) ClaimedTypes() []string { return []string{TypeUID} }

func (f *Factory) GetHandler(ctx context.Context, module types.ModuleRef) (types.Handler, error) {
	var cfg configuration
	if err := maps.Map2Struct(module.Configuration, &cfg); err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker).SetClientID("rule-" + module.RuleUID + "-" + module.ModuleID)
	h := &handler{cfg: cfg, moduleID: module.ModuleID}

	opts.SetDefaultPublishHandler(func(c mqtt.Client, msg mqtt.Message) {
		h.onMessage(ctx, msg.Payload())
	})

	client := f.newClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	if token := client.Subscribe(cfg.Topic, cfg.QoS, nil); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, token.Error()
	}
	h.client = client
	return h, nil
}

func (f *Factory) UngetHandler(ctx context.Context, module types.ModuleRef, handle types.Handler) {
	handle.Release()
}

type handler struct {
	mu       sync.RWMutex
	cfg      configuration
	moduleID string
	client   mqtt.Client
	callback types.TriggerCallback
}

var _ types.TriggerHandler = (*handler)(nil)

func (h *handler) SetCallback(cb types.TriggerCallback) {
	h.mu.Lock()
	h.callback = cb
	h.mu.Unlock()
}

// onMessage decodes the MQTT payload as a JSON object and forwards it as
// the trigger's outputs, falling back to a single "payload" output for a
// non-object body.
func (h *handler) onMessage(ctx context.Context, payload []byte) {
	h.mu.RLock()
	cb := h.callback
	moduleID := h.moduleID
	h.mu.RUnlock()
	if cb == nil {
		return
	}

	var outputs map[string]any
	if err := json.Unmarshal(payload, &outputs); err != nil || outputs == nil {
		outputs = map[string]any{"payload": string(payload)}
	}
	cb.Triggered(ctx, moduleID, outputs)
}

func (h *handler) Release() {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()
	if client != nil && client.IsConnected() {
		client.Disconnect(250)
	}
}
