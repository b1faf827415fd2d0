package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/koassets/rights-backend/internal/queue"
)

// NotifierGroup is a set of recipients and an optional email template.
// Template = "" means in-app notification (no-email) only.
type NotifierGroup struct {
	Emails       []string
	Template     string
	TemplateData map[string]interface{}
}

// subset of TaskQueue.
type queueService interface {
	Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error)
}

type Dispatcher struct {
	inbox     InboxStore
	queue     queueService
	templates *template.Template
}

func NewDispatcher(inbox InboxStore, q queueService, tmpl *template.Template) *Dispatcher {
	return &Dispatcher{
		inbox:     inbox,
		queue:     q,
		templates: tmpl,
	}
}

// Notify writes in-app inbox entries for all groups, then enqueues emails
// for groups that specify a template. Email failures are logged, not
// returned; delivery is fire-and-forget from the workflow's perspective.
func (d *Dispatcher) Notify(ctx context.Context, actor, eventType, requestID string, groups []NotifierGroup) error {
	now := time.Now().UTC()

	for _, g := range groups {
		for _, email := range g.Emails {
			if email == actor {
				continue
			}
			n := Notification{
				ID:        uuid.New().String(),
				Recipient: email,
				Actor:     actor,
				EventType: eventType,
				RequestID: requestID,
				CreatedAt: now,
			}
			if err := d.inbox.AppendNotification(ctx, n); err != nil {
				return fmt.Errorf("failed to write in-app notification: %w", err)
			}
		}
	}

	for _, g := range groups {
		if g.Template == "" {
			continue
		}
		d.sendGroupEmails(actor, g)
	}

	return nil
}

func (d *Dispatcher) sendGroupEmails(actor string, g NotifierGroup) {
	if len(g.Emails) == 0 {
		return
	}

	subject, body, err := d.renderTemplate(g.Template, g.TemplateData)
	if err != nil {
		logging.Error("failed to render notification template", "template", g.Template, "error", err)
		return
	}

	for _, email := range g.Emails {
		if email == actor {
			continue
		}
		if _, err := d.queue.Enqueue(queue.TypeEmailDelivery, queue.EmailDeliveryPayload{
			To:      email,
			Subject: subject,
			Body:    body,
		}); err != nil {
			logging.Error("failed to enqueue notification email", "to", email, "template", g.Template, "error", err)
		}
	}
}

// SendLoginCode enqueues the OTP login email. Unlike workflow
// notifications this is not fire-and-forget: login cannot proceed
// without the code, so enqueue failures surface to the caller.
func (d *Dispatcher) SendLoginCode(email, code string) error {
	subject, body, err := d.renderTemplate("login_code", map[string]interface{}{
		"Code": code,
	})
	if err != nil {
		return fmt.Errorf("render login code email: %w", err)
	}

	if _, err := d.queue.Enqueue(queue.TypeEmailDelivery, queue.EmailDeliveryPayload{
		To:      email,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return fmt.Errorf("enqueue login code email: %w", err)
	}
	return nil
}

// Inbox read operations are exposed through the dispatcher so handlers
// only ever see one notifications entry point.

func (d *Dispatcher) GetUserNotifications(ctx context.Context, email string, limit, offset int64) ([]Notification, error) {
	return d.inbox.ListNotifications(ctx, email, limit, offset)
}

func (d *Dispatcher) MarkAsRead(ctx context.Context, email, notificationID string) (Notification, error) {
	return d.inbox.MarkNotificationRead(ctx, email, notificationID)
}

func (d *Dispatcher) MarkAllAsRead(ctx context.Context, email string) error {
	return d.inbox.MarkAllNotificationsRead(ctx, email)
}

func (d *Dispatcher) GetUnreadCount(ctx context.Context, email string) (int64, error) {
	return d.inbox.CountUnreadNotifications(ctx, email)
}

func (d *Dispatcher) GetTotalCount(ctx context.Context, email string) (int64, error) {
	return d.inbox.CountNotifications(ctx, email)
}

// {{define "name:subject"}} and {{define "name:body"}}
func (d *Dispatcher) renderTemplate(name string, data map[string]interface{}) (subject, body string, err error) {
	var subjectBuf bytes.Buffer
	if err = d.templates.ExecuteTemplate(&subjectBuf, name+":subject", data); err != nil {
		return "", "", fmt.Errorf("render subject for %q: %w", name, err)
	}

	var bodyBuf bytes.Buffer
	if err = d.templates.ExecuteTemplate(&bodyBuf, name+":body", data); err != nil {
		return "", "", fmt.Errorf("render body for %q: %w", name, err)
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}
