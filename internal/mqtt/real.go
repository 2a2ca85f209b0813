package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const bufferCapacity = 256

// RealClient talks to an actual MQTT broker. It subscribes the two
// prediction topics on every (re)connect, delivers parsed updates on a
// channel, and ring-buffers sensor reports while disconnected so they
// are replayed in order once the broker comes back.
type RealClient struct {
	client  paho.Client
	updates chan Update

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewRealClient creates a client connected to the given broker.
func NewRealClient(broker, clientID string) (*RealClient, error) {
	c := &RealClient{
		updates: make(chan Update, 16),
		buffer:  newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// onConnect runs on every connect and reconnect: subscriptions do not
// survive a clean-session reconnect, and buffered reports are replayed.
func (c *RealClient) onConnect(client paho.Client) {
	log.Printf("mqtt: connected")

	if token := client.Subscribe(TopicTempPred, 1, c.handleTemp); token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe %s: %v", TopicTempPred, token.Error())
	}
	if token := client.Subscribe(TopicGasPred, 1, c.handleGas); token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe %s: %v", TopicGasPred, token.Error())
	}

	c.mu.Lock()
	queued := c.buffer.drainAll()
	c.mu.Unlock()
	if len(queued) > 0 {
		log.Printf("mqtt: replaying %d buffered reports", len(queued))
		for _, msg := range queued {
			client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		}
	}
}

func (c *RealClient) handleTemp(_ paho.Client, msg paho.Message) {
	reading, err := ParseTempPrediction(msg.Payload())
	if err != nil {
		c.deliver(Update{Err: err})
		return
	}
	c.deliver(Update{Temp: &reading})
}

func (c *RealClient) handleGas(_ paho.Client, msg paho.Message) {
	reading, err := ParseGasPrediction(msg.Payload())
	if err != nil {
		c.deliver(Update{Err: err})
		return
	}
	c.deliver(Update{Gas: &reading})
}

// deliver hands an update to the control loop without ever blocking
// the paho router goroutine. If the loop is not keeping up the oldest
// queued update is dropped: only the most recent classification is
// current truth anyway.
func (c *RealClient) deliver(u Update) {
	for {
		select {
		case c.updates <- u:
			return
		default:
			select {
			case <-c.updates:
			default:
			}
		}
	}
}

// Updates delivers parsed classification messages.
func (c *RealClient) Updates() <-chan Update {
	return c.updates
}

// PublishReport sends a sensor report on the data topic, buffering it
// if the broker is unreachable.
func (c *RealClient) PublishReport(r Report) error {
	payload, err := FormatReport(r)
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}

	if !c.client.IsConnected() {
		c.mu.Lock()
		c.buffer.push(queuedMsg{topic: TopicData, payload: payload, qos: 0})
		c.mu.Unlock()
		return nil
	}

	// QoS 0 (at-most-once), not retained
	token := c.client.Publish(TopicData, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := c.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is active.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
