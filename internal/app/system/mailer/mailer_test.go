package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/email"
	"go.uber.org/zap"
)

func TestBuildVerificationEmail(t *testing.T) {
	e := BuildVerificationEmail(VerificationEmailData{SiteName: "Alpha Club", Name: "Ana", Code: "123456", ExpiresIn: "3 minutes"})

	if !strings.Contains(e.Subject, "Alpha Club") {
		t.Errorf("subject: %q", e.Subject)
	}
	for _, body := range []string{e.TextBody, e.HTMLBody} {
		if !strings.Contains(body, "123456") || !strings.Contains(body, "3 minutes") {
			t.Errorf("body missing code or expiry: %q", body)
		}
	}
}

func TestBuildPartnerApprovedEmail_CredentialsOptional(t *testing.T) {
	with := BuildPartnerApprovedEmail(PartnerApprovedData{SiteName: "S", ContactName: "C", CompanyName: "Co", Email: "c@x.com", TempPassword: "pw-1", LoginURL: "http://x"})
	if !strings.Contains(with.TextBody, "pw-1") || !strings.Contains(with.HTMLBody, "pw-1") {
		t.Error("expected temporary password in both bodies")
	}

	without := BuildPartnerApprovedEmail(PartnerApprovedData{SiteName: "S", ContactName: "C", CompanyName: "Co", LoginURL: "http://x"})
	if strings.Contains(without.TextBody, "Temporary password") {
		t.Error("no credentials block expected")
	}
}

func TestBuildEmails_HTMLEscaped(t *testing.T) {
	e := BuildPartnerRejectedEmail(PartnerRejectedData{SiteName: "S", ContactName: "<script>x</script>", CompanyName: "Co"})
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("HTML body must escape user input")
	}
	a := BuildNewApplicationEmail(NewApplicationData{SiteName: "S", CompanyName: "Acme", PartnershipID: "PC-00001"})
	if !strings.Contains(a.Subject, "Acme") || !strings.Contains(a.TextBody, "PC-00001") {
		t.Errorf("application email: %+v", a)
	}
}

type fakeTransport struct {
	got []email.Message
	err error
}

func (f *fakeTransport) Send(_ context.Context, msg email.Message) error {
	f.got = append(f.got, msg)
	return f.err
}

func TestMailer_Send(t *testing.T) {
	ft := &fakeTransport{}
	m := &Mailer{log: zap.NewNop(), transport: ft}

	err := m.Send(context.Background(), Email{To: "Ana <ana@x.com>", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>html</p>"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(ft.got) != 1 {
		t.Fatalf("transport calls = %d, want 1", len(ft.got))
	}
	msg := ft.got[0]
	if len(msg.To) != 1 || msg.To[0] != "ana@x.com" {
		t.Errorf("to = %v", msg.To)
	}
	if msg.Subject != "Hi" || msg.TextBody != "plain" || msg.HTMLBody != "<p>html</p>" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMailer_SendErrors(t *testing.T) {
	ft := &fakeTransport{}
	m := &Mailer{log: zap.NewNop(), transport: ft}

	if err := m.Send(context.Background(), Email{To: "not an address"}); err == nil {
		t.Error("expected invalid recipient error")
	}
	if len(ft.got) != 0 {
		t.Error("invalid recipient must not reach the relay")
	}

	boom := errors.New("relay down")
	ft.err = boom
	if err := m.Send(context.Background(), Email{To: "a@x.com", TextBody: "x"}); !errors.Is(err, boom) {
		t.Errorf("expected relay error, got %v", err)
	}
}

func TestNew_UsesWaffleSender(t *testing.T) {
	m := New(Config{Host: "smtp.test", Port: 587, From: "noreply@club.test"}, zap.NewNop())
	if _, ok := m.transport.(*email.Sender); !ok {
		t.Errorf("transport = %T, want *email.Sender", m.transport)
	}
}
