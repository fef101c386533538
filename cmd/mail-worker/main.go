package main

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/infra/brevo"
	"github.com/omuct/eat-and-go-sub000/internal/infra/mq"
	"github.com/omuct/eat-and-go-sub000/internal/logger"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
	"github.com/omuct/eat-and-go-sub000/internal/repository/mysql"
	"github.com/omuct/eat-and-go-sub000/internal/service"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Init()

	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)

	profileRepo := mysql.NewProfileRepository(db)
	mailClient := brevo.New(&cfg.Mail)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(cfg.Mail.Queue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(cfg.Mail.Queue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	log.Println("mail worker started, waiting for messages...")

	for d := range msgs {
		var m mail.Message
		if err := json.Unmarshal(d.Body, &m); err != nil {
			log.Printf("invalid message: %v", err)
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}
		handleMessage(context.Background(), &cfg.Mail, profileRepo, mailClient, &m, d)
	}
}

func handleMessage(ctx context.Context, cfg *config.MailConfig, profiles profile.Repository, client *brevo.Client, m *mail.Message, d amqp.Delivery) {
	if !canSendEmail(ctx, profiles, m.To) {
		log.Printf("recipient %s not registered, drop %s mail", m.To, m.Kind)
		_ = d.Nack(false, false)
		return
	}

	subject, html, err := mail.Render(m)
	if err != nil {
		log.Printf("render failed: %v", err)
		// 渲染失败重试也没用，丢弃
		_ = d.Nack(false, false)
		return
	}

	msgID, err := client.Send(ctx, &brevo.SendRequest{
		Sender:      brevo.Contact{Email: cfg.FromEmail, Name: cfg.FromName},
		To:          []brevo.Contact{{Email: m.To, Name: m.CustomerName}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		log.Printf("brevo send failed: %v", err)
		service.GetMonitor().RecordMailError()
		// 提供商侧错误，重新入队稍后再试
		_ = d.Nack(false, true)
		return
	}

	log.Printf("mail sent: kind=%s order=%s message_id=%s", m.Kind, m.OrderNumber, msgID)

	if err := d.Ack(false); err != nil {
		log.Printf("failed to ack message: %v", err)
	}
}

// canSendEmail 收件人必须是已注册用户才发信
func canSendEmail(ctx context.Context, profiles profile.Repository, email string) bool {
	if email == "" {
		return false
	}
	p, err := profiles.GetByEmail(ctx, email)
	return err == nil && p != nil
}
