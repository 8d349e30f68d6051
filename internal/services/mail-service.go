package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/stortfordearlybirds/membership-service/internal/clients/resend"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
)

// Templates render with html/template so every user-supplied value is
// escaped before it reaches a mail client.
const welcomeTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333;">Welcome to Stortford Early Birds!</h1>
  <p>Hello {{.FullName}},</p>
  <p>Thank you for joining our cycling group! Your membership application has been received and your account has been created.</p>

  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #333; margin-top: 0;">Your Login Details</h2>
    <p><strong>Email (Username):</strong> {{.Email}}</p>
    <p><strong>Temporary Password:</strong> <code style="background-color: #fff; padding: 4px 8px; border-radius: 4px; font-size: 16px;">{{.Password}}</code></p>
  </div>

  <p>Please keep this email safe and use these credentials to log in to the member area.</p>
  <p><strong>Important:</strong> We recommend changing your password after your first login for security purposes.</p>

  <p>Best regards,<br>The Stortford Early Birds Team</p>
</div>
`

const loginCodeTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333;">Stortford Early Birds</h1>
  <h2 style="color: #333;">Your Login Verification Code</h2>
  <p style="color: #666;">Please enter the following 6-digit code on the login page to access your account:</p>

  <div style="background-color: #f5f5f5; padding: 25px; border-radius: 8px; margin: 30px 0; text-align: center;">
    <code style="font-size: 42px; font-weight: bold; letter-spacing: 12px; color: #333;">{{.Code}}</code>
  </div>

  <p style="color: #666; font-size: 14px;">This code will expire in <strong>60 minutes</strong>.</p>
  <p style="color: #666; font-size: 14px;">If you didn't request this code, please ignore this email. Your account remains secure.</p>

  <p style="color: #999; font-size: 12px;">Best regards,<br><strong>The Stortford Early Birds Team</strong></p>
</div>
`

const applicationTemplate = `
<h1>New Membership Application</h1>

<h2>Personal Information</h2>
<p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Date of Birth:</strong> {{.DateOfBirth}}</p>
<p><strong>Address:</strong> {{.AddressLine1}}{{if .AddressLine2}}, {{.AddressLine2}}{{end}}, {{.City}}, {{.Postcode}}</p>

<h2>Emergency Contact</h2>
<p><strong>Name:</strong> {{.EmergencyContactName}}</p>
<p><strong>Phone:</strong> {{.EmergencyContactPhone}}</p>

<h2>Insurance Information</h2>
<p><strong>Provider:</strong> {{.InsuranceProvider}}</p>
<p><strong>Policy Number:</strong> {{.PolicyNumber}}</p>

<h2>Cycling Information</h2>
<p><strong>Experience Level:</strong> {{.ExperienceLabel}}</p>
{{if .MedicalInfo}}<p><strong>Medical Conditions/Allergies:</strong> {{.MedicalInfo}}</p>{{end}}

<hr>
<p><small>This application was submitted through the SEB website on {{.SubmittedAt}}.</small></p>
`

type MailService struct {
	client    *resend.Client
	from      string
	clubInbox string

	welcomeTmpl *template.Template
	codeTmpl    *template.Template
	appTmpl     *template.Template
}

func NewMailService(client *resend.Client, fromName, fromAddr, clubInbox string) *MailService {
	return &MailService{
		client:      client,
		from:        fmt.Sprintf("%s <%s>", fromName, fromAddr),
		clubInbox:   clubInbox,
		welcomeTmpl: template.Must(template.New("welcome").Parse(welcomeTemplate)),
		codeTmpl:    template.Must(template.New("login-code").Parse(loginCodeTemplate)),
		appTmpl:     template.Must(template.New("application").Parse(applicationTemplate)),
	}
}

func (s *MailService) RenderWelcome(fullName, email, pass string) (string, error) {
	var buf bytes.Buffer
	err := s.welcomeTmpl.Execute(&buf, map[string]string{
		"FullName": fullName,
		"Email":    email,
		"Password": pass,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) RenderLoginCode(code string) (string, error) {
	var buf bytes.Buffer
	if err := s.codeTmpl.Execute(&buf, map[string]string{"Code": code}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) RenderApplication(app dto.MembershipApplication) (string, error) {
	var buf bytes.Buffer
	err := s.appTmpl.Execute(&buf, map[string]string{
		"FirstName":             app.FirstName,
		"LastName":              app.LastName,
		"Email":                 app.Email,
		"Phone":                 app.Phone,
		"DateOfBirth":           app.DateOfBirth,
		"AddressLine1":          app.AddressLine1,
		"AddressLine2":          app.AddressLine2,
		"City":                  app.City,
		"Postcode":              app.Postcode,
		"EmergencyContactName":  app.EmergencyContactName,
		"EmergencyContactPhone": app.EmergencyContactPhone,
		"InsuranceProvider":     app.InsuranceProvider,
		"PolicyNumber":          app.PolicyNumber,
		"ExperienceLabel":       ExperienceLabel(app.Experience),
		"MedicalInfo":           app.MedicalInfo,
		"SubmittedAt":           time.Now().Format("2 January 2006 15:04"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) SendWelcomeEmail(ctx context.Context, to, fullName, pass string) (string, error) {
	html, err := s.RenderWelcome(fullName, to, pass)
	if err != nil {
		return "", err
	}

	id, err := s.client.Send(ctx, resend.SendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Welcome to Stortford Early Birds - Your Login Details",
		HTML:    html,
	})
	if err != nil {
		log.Printf("[MAIL] welcome send failed to=%s: %v", to, err)
		return "", err
	}
	log.Printf("[MAIL] welcome sent to=%s id=%s", to, id)
	return id, nil
}

func (s *MailService) SendLoginCodeEmail(ctx context.Context, to, code string) (string, error) {
	html, err := s.RenderLoginCode(code)
	if err != nil {
		return "", err
	}

	id, err := s.client.Send(ctx, resend.SendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Your Login Code - Stortford Early Birds",
		HTML:    html,
	})
	if err != nil {
		log.Printf("[MAIL] login code send failed to=%s: %v", to, err)
		return "", err
	}
	return id, nil
}

// SendApplicationEmail forwards the application to the club inbox with
// reply-to set to the applicant.
func (s *MailService) SendApplicationEmail(ctx context.Context, app dto.MembershipApplication) (string, error) {
	html, err := s.RenderApplication(app)
	if err != nil {
		return "", err
	}

	id, err := s.client.Send(ctx, resend.SendRequest{
		From:    s.from,
		To:      []string{s.clubInbox},
		ReplyTo: app.Email,
		Subject: fmt.Sprintf("New Membership Application - %s", app.FullName()),
		HTML:    html,
	})
	if err != nil {
		log.Printf("[MAIL] application send failed for=%s: %v", app.Email, err)
		return "", err
	}
	return id, nil
}
