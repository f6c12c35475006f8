package notify

import (
	"context"
	"fmt"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

// InboxSink persists the notification as an in-app inbox row.
type InboxSink struct {
	repo repository.NotificationRepository
}

func NewInboxSink(repo repository.NotificationRepository) *InboxSink {
	return &InboxSink{repo: repo}
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, msg Message) error {
	return s.repo.Create(ctx, &domain.Notification{
		UserID:  msg.UserID,
		Title:   msg.Title,
		Message: msg.Body,
	})
}

type emailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailSink mails the notification through SendGrid to the recipient's address on file.
type EmailSink struct {
	users  repository.UserRepository
	client emailClient
	from   *mail.Email
}

func NewEmailSink(users repository.UserRepository, apiKey, fromEmail, fromName string) *EmailSink {
	return newEmailSink(users, sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newEmailSink(users repository.UserRepository, client emailClient, fromEmail, fromName string) *EmailSink {
	return &EmailSink{
		users:  users,
		client: client,
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, msg Message) error {
	user, err := s.users.GetByID(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("looking up recipient %d: %w", msg.UserID, err)
	}
	if user.Email == "" {
		logger.DebugContext(ctx, "Recipient has no email address, skipping", "userID", msg.UserID)
		return nil
	}

	message := mail.NewSingleEmail(s.from, msg.Title, mail.NewEmail(user.FullName, user.Email), msg.Body, "")

	logger.ExternalServiceCall("sendgrid", "Send", "userID", msg.UserID, "jobID", msg.ID)
	resp, err := s.client.Send(message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "userID", msg.UserID)
	return err
}

type pushClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSink publishes to the recipient's FCM topic, "user-<id>". Devices subscribe on login.
type PushSink struct {
	client pushClient
}

func NewPushSink(ctx context.Context, credentialsFile string) (*PushSink, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase messaging: %w", err)
	}
	return &PushSink{client: client}, nil
}

func (s *PushSink) Name() string { return "push" }

func UserTopic(userID int32) string {
	return "user-" + strconv.Itoa(int(userID))
}

func (s *PushSink) Deliver(ctx context.Context, msg Message) error {
	logger.ExternalServiceCall("fcm", "Send", "userID", msg.UserID, "jobID", msg.ID)
	_, err := s.client.Send(ctx, &messaging.Message{
		Topic: UserTopic(msg.UserID),
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: map[string]string{"notification_id": msg.ID},
	})
	logger.ExternalServiceResult("fcm", "Send", err, "userID", msg.UserID)
	return err
}
