package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// queueMail 把邮件序列化后投递到消息队列，由 cmd/mail 消费发送
func (h *Handler) queueMail(message domain.MailMessage) error {
	mailData, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}
