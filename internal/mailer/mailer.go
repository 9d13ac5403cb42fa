// Package mailer sends contact-form notifications over SMTP: an alert
// to the site owner and an auto-reply to the submitter. Dispatch runs on
// a background worker so the request path never blocks on SMTP, and
// failures are logged rather than surfaced.
package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// Config holds the optional SMTP credentials. When the pair of
// User/Password is absent, notifications are skipped silently.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	AdminEmail string
}

// Enabled reports whether dispatch credentials are configured.
func (c Config) Enabled() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

type task struct {
	to      string
	replyTo string
	subject string
	body    string
}

// Dispatcher queues notification emails for a background worker.
type Dispatcher struct {
	cfg         Config
	queue       chan task
	done        chan struct{}
	dialTimeout time.Duration
}

// NewDispatcher creates a Dispatcher and starts its worker goroutine.
// Call Close on shutdown to drain the queue.
func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		cfg:         cfg,
		queue:       make(chan task, 64),
		done:        make(chan struct{}),
		dialTimeout: 10 * time.Second,
	}
	go d.run()
	return d
}

// Notify enqueues the admin alert and the auto-reply for a persisted
// submission. It never blocks: when the queue is full the notification
// is dropped with a log line, since delivery is not part of the
// submission contract.
func (d *Dispatcher) Notify(sub *model.ContactSubmission) {
	if !d.cfg.Enabled() {
		return
	}
	if d.cfg.AdminEmail != "" {
		d.enqueue(task{
			to:      d.cfg.AdminEmail,
			replyTo: sub.Email,
			subject: "New contact form submission: " + sub.Subject,
			body:    adminBody(sub),
		})
	}
	d.enqueue(task{
		to:      sub.Email,
		subject: "Thanks for getting in touch",
		body:    autoReplyBody(sub),
	})
}

func (d *Dispatcher) enqueue(t task) {
	select {
	case d.queue <- t:
	default:
		slog.Warn("notification queue full, dropping email", "to", t.to)
	}
}

// Close stops accepting tasks and waits for the worker to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for t := range d.queue {
		if err := d.send(t); err != nil {
			slog.Error("notification dispatch failed", "to", t.to, "error", err)
			continue
		}
		slog.Info("notification sent", "to", t.to)
	}
}

func adminBody(sub *model.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New message via the portfolio contact form.\r\n\r\n")
	fmt.Fprintf(&b, "From:    %s <%s>\r\n", sub.Name, sub.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", sub.Subject)
	fmt.Fprintf(&b, "Source:  %s\r\n", sub.IPAddress)
	fmt.Fprintf(&b, "Sent:    %s\r\n\r\n", sub.CreatedAt.Format(time.RFC1123))
	b.WriteString(sub.Message)
	b.WriteString("\r\n")
	return b.String()
}

func autoReplyBody(sub *model.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", sub.Name)
	b.WriteString("Thanks for your message! It has been received and I will get back to you soon.\r\n\r\n")
	fmt.Fprintf(&b, "Your subject: %s\r\n\r\n", sub.Subject)
	b.WriteString("This is an automated confirmation, no need to reply.\r\n")
	return b.String()
}

// buildMessage assembles the RFC 5322 message with headers.
func (d *Dispatcher) buildMessage(t task) string {
	var msg strings.Builder
	msg.WriteString("From: " + d.cfg.User + "\r\n")
	msg.WriteString("To: " + t.to + "\r\n")
	if t.replyTo != "" {
		msg.WriteString("Reply-To: " + t.replyTo + "\r\n")
	}
	msg.WriteString("Subject: " + t.subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(t.body)
	return msg.String()
}

// send delivers one message over SMTP with STARTTLS when the server
// offers it. The dial is bounded by dialTimeout so a dead relay cannot
// wedge the worker.
func (d *Dispatcher) send(t task) error {
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, d.dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: d.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", d.cfg.User, d.cfg.Password, d.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(d.cfg.User); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(t.to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(d.buildMessage(t))); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
