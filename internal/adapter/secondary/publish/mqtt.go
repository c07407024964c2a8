package publish

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
)

type publishFunc func(topic string, retained bool, payload []byte) error

// MQTTPublisher implements domain.Publisher by sending a retained JSON
// message to <prefix>/next whenever the upcoming prayer changes.
// This is a secondary adapter.
type MQTTPublisher struct {
	client      mqtt.Client
	topicPrefix string
	publish     publishFunc
}

// New returns a NoopPublisher when MQTT is disabled, otherwise connects to the broker.
func New(cfg domain.MQTTSettings) (domain.Publisher, error) {
	if !cfg.Enabled {
		return NewNoopPublisher(), nil
	}
	return NewMQTTPublisher(cfg)
}

const connectTimeout = 10 * time.Second

// awaitConnect waits for the first connection. A broker that does not answer
// in time is not an error: the client keeps retrying in the background.
func awaitConnect(token mqtt.Token, timeout time.Duration, broker string) error {
	if !token.WaitTimeout(timeout) {
		logging.Warnf("MQTT broker %s not reachable after %s, publishing once it connects", broker, timeout)
		return nil
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return nil
}

// NewMQTTPublisher connects to cfg.Broker. An empty client id gets a random suffix.
func NewMQTTPublisher(cfg domain.MQTTSettings) (*MQTTPublisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "namaz-" + uuid.NewString()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logging.Warnf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			logging.Infof("MQTT connected to %s", cfg.Broker)
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if err := awaitConnect(client.Connect(), connectTimeout, cfg.Broker); err != nil {
		return nil, err
	}

	p := &MQTTPublisher{client: client, topicPrefix: topicPrefix(cfg.TopicPrefix)}
	p.publish = func(topic string, retained bool, payload []byte) error {
		token := client.Publish(topic, 1, retained, payload)
		if !token.WaitTimeout(5 * time.Second) {
			return fmt.Errorf("publish to %s timed out", topic)
		}
		return token.Error()
	}
	return p, nil
}

func topicPrefix(prefix string) string {
	if prefix == "" {
		return domain.DefaultTopicPrefix
	}
	return prefix
}

// PublishNext sends event as retained JSON.
func (p *MQTTPublisher) PublishNext(event domain.NextPrayerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	topic := p.topicPrefix + "/next"
	if err := p.publish(topic, true, payload); err != nil {
		return fmt.Errorf("failed to publish next prayer: %w", err)
	}
	logging.Debugf("published %s to %s", event.Prayer, topic)
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
