// Package report emails the daily run report: which signs rendered, which
// uploaded where, and which failed. Delivery is plain SMTP with STARTTLS,
// credentials from the environment.
package report

import (
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

// Report statuses. Failure flips the accent color and the subject marker.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// SMTPConfig is the delivery endpoint and account.
type SMTPConfig struct {
	From     string
	Password string
	To       []string
	Server   string
	Port     int
}

// ConfigFromEnv reads EMAIL_FROM, EMAIL_PASSWORD, EMAIL_TO, SMTP_SERVER and
// SMTP_PORT. Server and port default to Gmail submission.
func ConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		From:     os.Getenv("EMAIL_FROM"),
		Password: os.Getenv("EMAIL_PASSWORD"),
		Server:   "smtp.gmail.com",
		Port:     587,
	}
	if to := strings.TrimSpace(os.Getenv("EMAIL_TO")); to != "" {
		for _, addr := range strings.Split(to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.To = append(cfg.To, addr)
			}
		}
	}
	if server := strings.TrimSpace(os.Getenv("SMTP_SERVER")); server != "" {
		cfg.Server = server
	}
	if port := strings.TrimSpace(os.Getenv("SMTP_PORT")); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	return cfg
}

// Complete reports whether the account pieces are present.
func (c SMTPConfig) Complete() bool {
	return c.From != "" && c.Password != "" && len(c.To) > 0
}

// RunLinkFromEnv builds the GitHub Actions run URL when running in CI,
// empty otherwise.
func RunLinkFromEnv() string {
	repo := os.Getenv("GITHUB_REPOSITORY")
	run := os.Getenv("GITHUB_RUN_ID")
	if repo == "" || run == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/actions/runs/%s", repo, run)
}

// sendFunc matches smtp.SendMail so tests can capture the delivery.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender delivers reports over SMTP.
type Sender struct {
	Config SMTPConfig
	Logger *log.Logger

	send sendFunc
}

// NewSender builds a sender around smtp.SendMail, which negotiates STARTTLS
// when the server offers it.
func NewSender(cfg SMTPConfig, logger *log.Logger) *Sender {
	return &Sender{Config: cfg, Logger: logger, send: smtp.SendMail}
}

// Send renders and delivers one report.
func (s *Sender) Send(r Report) error {
	cfg := s.Config
	if !cfg.Complete() {
		return errors.New("email credentials not configured (set EMAIL_FROM, EMAIL_PASSWORD, EMAIL_TO)")
	}

	body, err := r.HTML()
	if err != nil {
		return errors.Wrap(err, "render report")
	}
	msg := buildMessage(cfg.From, cfg.To, r.Subject(), body)

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Server)

	s.logf("sending report to %s via %s", strings.Join(cfg.To, ", "), addr)
	if err := s.sender()(addr, auth, cfg.From, cfg.To, msg); err != nil {
		return errors.Wrap(err, "send report")
	}
	return nil
}

func (s *Sender) sender() sendFunc {
	if s.send != nil {
		return s.send
	}
	return smtp.SendMail
}

// buildMessage assembles the RFC 822 envelope. The subject carries emoji, so
// it goes through Q encoding.
func buildMessage(from string, to []string, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

func catalogSize() int {
	return len(zodiac.Names())
}

func (s *Sender) logf(format string, args ...any) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Printf(format, args...)
}
