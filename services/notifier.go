package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// Notifier delivers counterparty notifications through the external email
// provider. Delivery is best-effort; callers log failures and move on.
type Notifier struct {
	apiKey      string
	fromEmail   string
	frontendURL string
}

func NewNotifier() *Notifier {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	return &Notifier{
		apiKey:      os.Getenv("RESEND_API_KEY"),
		fromEmail:   os.Getenv("FROM_EMAIL"),
		frontendURL: frontendURL,
	}
}

// CollaborationRequested notifies the counterparty of a new request.
func (n *Notifier) CollaborationRequested(to, partnerName, collabType, collabID string) error {
	subject := fmt.Sprintf("%s sent you a collaboration request", partnerName)
	body := fmt.Sprintf(`
		<p>Hi,</p>
		<p><strong>%s</strong> proposed a <strong>%s</strong> collaboration with you.</p>
		<a href="%s/collaborations/%s" class="button">Review the request</a>
	`, partnerName, collabType, n.frontendURL, collabID)
	return n.send(to, subject, body)
}

// DecisionMade notifies the counterparty that the collaboration was accepted
// or declined.
func (n *Notifier) DecisionMade(to, partnerName, decision, collabID string) error {
	subject := fmt.Sprintf("%s %s your collaboration request", partnerName, decision)
	body := fmt.Sprintf(`
		<p>Hi,</p>
		<p><strong>%s</strong> has <strong>%s</strong> the collaboration.</p>
		<a href="%s/collaborations/%s" class="button">View the collaboration</a>
	`, partnerName, decision, n.frontendURL, collabID)
	return n.send(to, subject, body)
}

func (n *Notifier) send(to, subject, htmlBody string) error {
	if n.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #0ea5e9 0%%, #6366f1 100%%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #0ea5e9; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🏨 StayLink</h1>
        </div>
        <div class="content">%s</div>
    </div>
</body>
</html>
	`, htmlBody)

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("StayLink <%s>", n.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.apiKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}
