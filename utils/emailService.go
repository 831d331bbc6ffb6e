package utils

import (
	"fmt"
	"log"

	"github.com/michaelsiame/edutrack-lms-sub004/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers a single HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendGridApiKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping email to %s (%s)", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("EduTrack", cfg.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(cfg.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the shared EduTrack layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B4332; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B4332; line-height: 1.6; }
			.content h2 { color: #1B4332; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #40916C; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>EDUTRACK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 EduTrack Learning. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly registered user
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to EduTrack! Browse the course catalog and enroll to start learning.</p>`, name)

	go func() {
		_ = SendEmail(email, name, "Welcome to EduTrack", getEmailTemplate("Welcome Aboard", body))
	}()
}

// SendPaymentInstructionsEmail shares the virtual account details for a
// pending course payment
func SendPaymentInstructionsEmail(email, name, courseTitle string, amount float64, currency string, account *VirtualAccount) {
	accountBlock := ""
	if account != nil {
		accountBlock = fmt.Sprintf(`
		<div class="info-box">
			<p><strong>Bank:</strong> %s<br>
			<strong>Account Name:</strong> %s<br>
			<strong>Account Number:</strong> %s</p>
		</div>`, account.BankName, account.AccountName, account.AccountNumber)
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your enrollment in <strong>%s</strong> is reserved. Pay %s to activate it.</p>
		%s
		<p>Your access is activated automatically once the payment is confirmed.</p>`,
		name, courseTitle, FormatAmount(amount, currency), accountBlock)

	go func() {
		_ = SendEmail(email, name, "Complete your EduTrack enrollment", getEmailTemplate("Payment Instructions", body))
	}()
}

// SendEnrollmentActivatedEmail confirms a settled payment and active enrollment
func SendEnrollmentActivatedEmail(email, name, courseTitle string, amount float64, currency string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received your payment of <strong>%s</strong>.</p>
		<p>Your enrollment in <strong>%s</strong> is now active. Happy learning!</p>`,
		name, FormatAmount(amount, currency), courseTitle)

	go func() {
		_ = SendEmail(email, name, "Enrollment activated", getEmailTemplate("Payment Received", body))
	}()
}

// SendCertificateIssuedEmail notifies a student their certificate was approved
func SendCertificateIssuedEmail(email, name, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box"><p><strong>Certificate Number:</strong> %s</p></div>`,
		name, courseTitle, certificateNumber)

	go func() {
		_ = SendEmail(email, name, "Your certificate is ready", getEmailTemplate("Certificate Issued", body))
	}()
}
