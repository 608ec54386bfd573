package services

import (
	"bytes"
	"fmt"
	"html/template"
)

// mailTemplate is the shared layout for outbound mail: greeting, message
// lines, optional action button, ignore-notice footer.
var mailTemplate = template.Must(template.New("mail").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <p>Hi {{.FirstName}},</p>
  {{range .MessageLines}}<p>{{.}}</p>
  {{end}}{{if .ActionURL}}<p><a href="{{.ActionURL}}" style="background: #007bff; color: white; padding: 10px 15px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a></p>
  {{end}}<p>If you didn't expect this, you can safely ignore this email.</p>
  <p>– The OrgHub Team</p>
</div>`))

type mailTemplateData struct {
	FirstName    string
	MessageLines []string
	ActionText   string
	ActionURL    string
}

func renderMailTemplate(data mailTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}

// ForgotPasswordMail renders the password reset email
func ForgotPasswordMail(firstName, resetLink string) (subject, body string, err error) {
	subject = "Reset Your Password"
	body, err = renderMailTemplate(mailTemplateData{
		FirstName: firstName,
		MessageLines: []string{
			"You recently requested to reset your password.",
			"Click the link below to reset it:",
		},
		ActionText: "Reset Password",
		ActionURL:  resetLink,
	})
	return subject, body, err
}

// InviteUserMail renders the organization invitation email
func InviteUserMail(firstName, inviteLink, organizationName string) (subject, body string, err error) {
	subject = fmt.Sprintf("You've been invited to join %s", organizationName)
	body, err = renderMailTemplate(mailTemplateData{
		FirstName: firstName,
		MessageLines: []string{
			fmt.Sprintf("%s has invited you to join their workspace.", organizationName),
			"Click the button below to accept the invitation and get started.",
		},
		ActionText: "Accept Invitation",
		ActionURL:  inviteLink,
	})
	return subject, body, err
}
