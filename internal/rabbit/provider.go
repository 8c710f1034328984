package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/dkovalev/reminder/internal/notifier"
)

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Queue    string
}

// Message mirrors the reminder payload published for external consumers.
type Message struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Time  time.Time `json:"time"`
}

type Provider struct {
	conn       *amqp.Connection
	queue      amqp.Queue
	channel    *amqp.Channel
	connString string
	queueName  string
}

func New(config Config) *Provider {
	return &Provider{
		connString: fmt.Sprintf(
			"amqp://%s:%s@%s:%d/",
			config.User,
			config.Password,
			config.Host,
			config.Port,
		),
		queueName: config.Queue,
	}
}

func (r *Provider) Connect() error {
	var err error
	r.conn, err = amqp.Dial(r.connString)
	if err != nil {
		return err
	}

	r.channel, err = r.conn.Channel()
	if err != nil {
		return err
	}
	r.queue, err = r.channel.QueueDeclare(
		r.queueName,
		false,
		true,
		false,
		false,
		nil,
	)
	return err
}

func (r *Provider) Close() {
	r.conn.Close()
}

func (r *Provider) Publish(body []byte) error {
	return r.channel.Publish(
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}

type MessageProcess = func(msg amqp.Delivery)

func (r *Provider) Consume(ctx context.Context, process MessageProcess) error {
	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		true,         // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if ok {
				process(m)
			}
		}
	}
}

// Notifier bridges scheduler reminders onto the queue. Info and warning
// messages are connection-scoped and stay on the WebSocket side.
type Notifier struct {
	provider *Provider
}

func NewNotifier(provider *Provider) *Notifier {
	return &Notifier{provider: provider}
}

func (n *Notifier) Notify(m notifier.Message) {
	if m.Type != notifier.TypeReminder || m.Event == nil {
		return
	}
	data, err := json.Marshal(Message{ID: m.Event.ID, Title: m.Event.Title, Time: m.Event.Time})
	if err != nil {
		log.Errorf("failed to marshal reminder %d: %v", m.Event.ID, err)
		return
	}
	if err := n.provider.Publish(data); err != nil {
		log.Errorf("failed to publish reminder %d: %v", m.Event.ID, err)
	}
}
