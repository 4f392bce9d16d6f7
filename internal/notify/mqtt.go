// Package notify pushes refresh events to connected display boards over MQTT
// so they re-pull after admin mutations instead of polling.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const refreshTopic = "minbar/boards/refresh"

type refreshEvent struct {
	Scope string `json:"scope"`
	At    string `json:"at"`
}

// Publisher is nil-safe: a nil *Publisher silently drops events, so the
// server runs fine without a broker.
type Publisher struct {
	client mqtt.Client
}

func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// BoardRefresh tells every board that content in the given scope changed.
func (p *Publisher) BoardRefresh(scope string) {
	if p == nil {
		return
	}
	payload, _ := json.Marshal(refreshEvent{Scope: scope, At: time.Now().UTC().Format(time.RFC3339)})
	token := p.client.Publish(refreshTopic, 1, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("scope", scope).Msg("failed to publish board refresh")
		}
	}()
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
