package mailer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wneessen/go-mail"

	"go-portfolio-api/internal/domain"
)

// ContactMessage 联系表单提交内容；只投递，不落库
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Relay 把联系表单转发到管理员邮箱；收件人由调用方解析
type Relay interface {
	SendContact(ctx context.Context, to string, msg ContactMessage) error
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPRelay go-mail 实现；Host 为空时视为未接入，投递必然失败
type SMTPRelay struct {
	opts Options
}

func NewSMTPRelay(opts Options) *SMTPRelay { return &SMTPRelay{opts: opts} }

func (r *SMTPRelay) SendContact(ctx context.Context, to string, msg ContactMessage) error {
	if r.opts.Host == "" {
		return fmt.Errorf("%w: smtp not configured", domain.ErrRelayDelivery)
	}

	replyTo, err := SanitizeAddress(msg.Email)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	to, err = SanitizeAddress(to)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}

	m := mail.NewMsg()
	if err := m.From(r.opts.From); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	if err := m.ReplyTo(replyTo); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	m.Subject(fmt.Sprintf("Portfolio contact from %s", stripCRLF(msg.Name)))
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Name: %s\nEmail: %s\n\n%s\n", stripCRLF(msg.Name), replyTo, msg.Message,
	))

	opts := []mail.Option{
		mail.WithPort(r.opts.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if r.opts.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(r.opts.Username),
			mail.WithPassword(r.opts.Password),
		)
	}
	c, err := mail.NewClient(r.opts.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelayDelivery, err)
	}
	return nil
}

var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SanitizeAddress 去掉换行防 header 注入，再做基础格式校验
func SanitizeAddress(addr string) (string, error) {
	cleaned := stripCRLF(addr)
	if !addressPattern.MatchString(cleaned) {
		return "", fmt.Errorf("invalid email address")
	}
	return cleaned, nil
}

func stripCRLF(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
