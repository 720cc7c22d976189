package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	model "mini-app-gateway/models"

	"github.com/go-zeromq/zmq4"
	log "github.com/sirupsen/logrus"
)

// ZMQClient subscribes to the registry update feed published over ZeroMQ
type ZMQClient struct {
	// ZMQ connection address, e.g. "tcp://127.0.0.1:28400"
	address string

	// Topics to listen to
	topics []string

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup

	reconnectInterval time.Duration

	// Each topic has its own handler
	handlers map[string]MessageHandler
}

// MessageHandler is the function type for handling ZMQ messages
type MessageHandler func(topic string, data []byte) error

// AppSink receives decoded app updates
type AppSink func(app *model.AppMetadata) error

// NewZMQClient creates a new ZMQ client
func NewZMQClient(address string) *ZMQClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &ZMQClient{
		address:           address,
		ctx:               ctx,
		cancel:            cancel,
		reconnectInterval: 5 * time.Second,
		handlers:          make(map[string]MessageHandler),
	}
}

// AddTopic adds a topic to listen to and its handler
func (c *ZMQClient) AddTopic(topic string, handler MessageHandler) {
	for _, t := range c.topics {
		if t == topic {
			return
		}
	}

	c.topics = append(c.topics, topic)
	c.handlers[topic] = handler
}

// Start starts listening to ZMQ messages
func (c *ZMQClient) Start() error {
	if len(c.topics) == 0 {
		return fmt.Errorf("no topics added, please use AddTopic to add topics to listen to")
	}

	log.Printf("Starting registry feed client: %s", c.address)
	log.Printf("Listening to topics: %s", strings.Join(c.topics, ", "))

	c.wg.Add(1)
	go c.listen()

	return nil
}

// StartWithApps listens to the app topic and forwards each decoded record to sink
func (c *ZMQClient) StartWithApps(topic string, sink AppSink) error {
	c.AddTopic(topic, AppMessageHandler(sink))
	return c.Start()
}

// Stop stops listening
func (c *ZMQClient) Stop() {
	log.Println("Stopping registry feed client...")
	c.cancel()
	c.wg.Wait()
	log.Println("Registry feed client stopped")
}

// wait sleeps for the reconnect interval unless stopped first
func (c *ZMQClient) wait() bool {
	select {
	case <-c.ctx.Done():
		return false
	case <-time.After(c.reconnectInterval):
		return true
	}
}

func (c *ZMQClient) listen() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			log.Println("Received stop signal, registry feed client is shutting down...")
			return
		default:
		}

		socket := zmq4.NewSub(c.ctx)
		if err := socket.Dial(c.address); err != nil {
			socket.Close()
			log.Printf("Failed to connect to feed: %v, will retry in %v", err, c.reconnectInterval)
			if !c.wait() {
				return
			}
			continue
		}

		for _, topic := range c.topics {
			if err := socket.SetOption(zmq4.OptionSubscribe, topic); err != nil {
				log.Printf("Failed to subscribe to topic %s: %v", topic, err)
				continue
			}
		}

		log.Printf("Connected to registry feed: %s", c.address)

		c.receiveMessages(socket)
		socket.Close()

		log.Printf("Feed connection lost, will reconnect in %v", c.reconnectInterval)
		if !c.wait() {
			return
		}
	}
}

func (c *ZMQClient) receiveMessages(socket zmq4.Socket) {
	for {
		msg, err := socket.Recv()
		if err != nil {
			if c.ctx.Err() == nil {
				log.Printf("Failed to receive message: %v", err)
			}
			return
		}

		// topic frame + payload frame
		if len(msg.Frames) < 2 {
			log.Printf("Received message with incorrect format: %d frames", len(msg.Frames))
			continue
		}

		topic := string(msg.Frames[0])
		handler, ok := c.handlers[topic]
		if !ok {
			log.Printf("Received message for unknown topic: %s", topic)
			continue
		}

		if err := handler(topic, msg.Frames[1]); err != nil {
			log.WithField("topic", topic).Warnf("Failed to process feed message: %v", err)
		}
	}
}

// AppMessageHandler decodes JSON AppMetadata payloads
func AppMessageHandler(sink AppSink) MessageHandler {
	return func(topic string, data []byte) error {
		var app model.AppMetadata
		if err := json.Unmarshal(data, &app); err != nil {
			return fmt.Errorf("failed to decode app payload: %w", err)
		}
		if app.AppID == "" {
			return fmt.Errorf("app payload without app_id")
		}
		if err := sink(&app); err != nil {
			return err
		}
		log.WithFields(log.Fields{"topic": topic, "app_id": app.AppID}).Info("Applied registry feed update")
		return nil
	}
}
