// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// VerificationEmailData fills the sign-up one-time code email.
type VerificationEmailData struct {
	SiteName  string
	Name      string
	Code      string
	ExpiresIn string // e.g. "3 minutes"
}

// PartnerApprovedData fills the approval email. TempPassword is empty when
// the partner already had an account.
type PartnerApprovedData struct {
	SiteName     string
	ContactName  string
	CompanyName  string
	Email        string
	TempPassword string
	LoginURL     string
}

// PartnerRejectedData fills the rejection email.
type PartnerRejectedData struct {
	SiteName    string
	ContactName string
	CompanyName string
}

// NewApplicationData fills the admin notice for a new partner application.
type NewApplicationData struct {
	SiteName      string
	CompanyName   string
	ContactName   string
	ContactEmail  string
	PartnershipID string
	ReviewURL     string
}

// BuildVerificationEmail creates the one-time code email. To is set by the caller.
func BuildVerificationEmail(data VerificationEmailData) Email {
	return build(fmt.Sprintf("Your %s verification code", data.SiteName), "verification", data)
}

// BuildPartnerApprovedEmail creates the partnership approval email.
func BuildPartnerApprovedEmail(data PartnerApprovedData) Email {
	return build(fmt.Sprintf("Your %s partnership is approved", data.SiteName), "approved", data)
}

// BuildPartnerRejectedEmail creates the partnership rejection email.
func BuildPartnerRejectedEmail(data PartnerRejectedData) Email {
	return build(fmt.Sprintf("Your %s partnership application", data.SiteName), "rejected", data)
}

// BuildNewApplicationEmail creates the notice sent to each admin.
func BuildNewApplicationEmail(data NewApplicationData) Email {
	return build(fmt.Sprintf("New partner application: %s", data.CompanyName), "application", data)
}

func build(subject, name string, data any) Email {
	var text, html bytes.Buffer
	_ = textTemplates.ExecuteTemplate(&text, name, data)
	_ = htmlTemplates.ExecuteTemplate(&html, "layout", struct {
		Body  string
		Title string
		Data  any
	}{Body: name, Title: subject, Data: data})
	return Email{Subject: subject, TextBody: text.String(), HTMLBody: html.String()}
}

var textTemplates = texttemplate.Must(texttemplate.New("").Parse(`
{{define "verification"}}Hello{{with .Name}} {{.}}{{end}},

Your {{.SiteName}} verification code is: {{.Code}}

This code expires in {{.ExpiresIn}}.

If you did not create an account, you can safely ignore this email.
{{end}}
{{define "approved"}}Hello {{.ContactName}},

Good news: the {{.SiteName}} partnership for {{.CompanyName}} has been approved.
{{if .TempPassword}}
You can sign in with:
  Email: {{.Email}}
  Temporary password: {{.TempPassword}}

Please change your password after signing in.
{{end}}
Sign in: {{.LoginURL}}
{{end}}
{{define "rejected"}}Hello {{.ContactName}},

Thank you for your interest in partnering with {{.SiteName}}. After review,
we are unable to approve the application for {{.CompanyName}} at this time.
{{end}}
{{define "application"}}A new partner application was submitted.

Partnership ID: {{.PartnershipID}}
Company: {{.CompanyName}}
Contact: {{.ContactName}} <{{.ContactEmail}}>

Review: {{.ReviewURL}}
{{end}}
`))

var htmlTemplates = htmltemplate.Must(htmltemplate.New("").Parse(`
{{define "layout"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px; color: #374151; font-size: 15px; line-height: 1.6;">
              {{if eq .Body "verification"}}{{template "verification" .Data}}{{end}}
              {{if eq .Body "approved"}}{{template "approved" .Data}}{{end}}
              {{if eq .Body "rejected"}}{{template "rejected" .Data}}{{end}}
              {{if eq .Body "application"}}{{template "application" .Data}}{{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>{{end}}
{{define "verification"}}
  <p>Hello{{with .Name}} {{.}}{{end}},</p>
  <p>Your {{.SiteName}} verification code is:</p>
  <p style="font-size: 32px; font-weight: 700; letter-spacing: 8px; font-family: monospace; color: #111827;">{{.Code}}</p>
  <p style="color: #6b7280;">This code expires in {{.ExpiresIn}}.</p>
{{end}}
{{define "approved"}}
  <p>Hello {{.ContactName}},</p>
  <p>The {{.SiteName}} partnership for <strong>{{.CompanyName}}</strong> has been approved.</p>
  {{if .TempPassword}}
  <p>Email: <strong>{{.Email}}</strong><br>Temporary password: <code>{{.TempPassword}}</code></p>
  <p style="color: #6b7280;">Please change your password after signing in.</p>
  {{end}}
  <p><a href="{{.LoginURL}}" style="color: #4f46e5;">Sign in</a></p>
{{end}}
{{define "rejected"}}
  <p>Hello {{.ContactName}},</p>
  <p>Thank you for your interest in partnering with {{.SiteName}}. After review, we are unable to approve the application for <strong>{{.CompanyName}}</strong> at this time.</p>
{{end}}
{{define "application"}}
  <p>A new partner application was submitted.</p>
  <p>Partnership ID: <strong>{{.PartnershipID}}</strong><br>Company: {{.CompanyName}}<br>Contact: {{.ContactName}} &lt;{{.ContactEmail}}&gt;</p>
  <p><a href="{{.ReviewURL}}" style="color: #4f46e5;">Review application</a></p>
{{end}}
`))
