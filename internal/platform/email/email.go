package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"payslips/internal/platform/config"
)

// Sender delivers messages. Implementations may hold a connection open
// between sends; Close releases it at the end of a batch.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

type logSender struct {
	log logrus.FieldLogger
}

// NewLog returns a sender that only records what would have been sent.
func NewLog(log logrus.FieldLogger) Sender {
	return logSender{log: log}
}

func (s logSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	names := make([]string, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		names = append(names, att.Filename)
	}
	s.log.WithFields(logrus.Fields{
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": names,
	}).Info("mail not sent (log transport)")
	return nil
}

func (logSender) Close() error { return nil }

type smtpSender struct {
	cfg config.Config

	mu     sync.Mutex
	conn   net.Conn
	client *smtp.Client
}

// NewSMTP returns a sender that keeps one SMTP session open across sends and
// redials after any failure.
func NewSMTP(cfg config.Config) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		if err := s.dial(ctx); err != nil {
			return err
		}
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetDeadline(deadline)
	} else {
		_ = s.conn.SetDeadline(time.Time{})
	}

	if err := s.deliver(msg.From, msg.To, data); err != nil {
		s.reset()
		return err
	}
	return nil
}

func (s *smtpSender) deliver(from, to string, data []byte) error {
	if err := s.client.Mail(from); err != nil {
		return err
	}
	if err := s.client.Rcpt(to); err != nil {
		return err
	}
	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *smtpSender) dial(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return err
	}

	if s.cfg.SMTPUseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return err
		}
	}

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return err
		}
	}

	s.conn = conn
	s.client = client
	return nil
}

func (s *smtpSender) reset() {
	if s.client != nil {
		_ = s.client.Close()
	}
	s.client = nil
	s.conn = nil
}

func (s *smtpSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Quit()
	s.reset()
	return err
}
