package mail

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// 邮件种类
const (
	KindOrderConfirmation = "order_confirmation"
	KindOrderReady        = "order_ready"
)

// Item 邮件里展示的订单条目
type Item struct {
	FoodID   int64  `json:"food_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Message 投递到 mail_queue 的消息体
type Message struct {
	Kind         string `json:"kind"`
	To           string `json:"to"`
	CustomerName string `json:"customer_name"`
	OrderID      string `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	Items        []Item `json:"items,omitempty"`
	TotalAmount  int64  `json:"total_amount,omitempty"`
	OrderDate    string `json:"order_date,omitempty"`
	PickupTime   string `json:"pickup_time,omitempty"`
}

// Publisher 邮件投递接口。订单流程里的发送都是尽力而为，
// 失败只记日志不回滚。
type Publisher interface {
	Publish(ctx context.Context, m *Message) error
}

// QueuePublisher 往 RabbitMQ 投递邮件消息
type QueuePublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewQueuePublisher 构建队列投递器
func NewQueuePublisher(conn *amqp.Connection, queue string) *QueuePublisher {
	return &QueuePublisher{conn: conn, queue: queue}
}

// Publish 声明队列并投递 JSON 消息
func (p *QueuePublisher) Publish(ctx context.Context, m *Message) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
