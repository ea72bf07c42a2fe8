package email

import "fmt"

// TrackerCreatedHTML renders the notification sent to management when a new
// term tracker is provisioned.
func TrackerCreatedHTML(programType, termName, year, coachName, sessionDay, sessionTime, sheetID, sheetURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>New Term Tracker Created</h1>
  <table>
    <tr><td>Program:</td><td><strong>%s</strong></td></tr>
    <tr><td>Term:</td><td><strong>%s %s</strong></td></tr>
    <tr><td>Coach:</td><td>%s</td></tr>
    <tr><td>Session:</td><td>%ss at %s</td></tr>
  </table>
  <p><strong>Sheet ID:</strong> %s</p>
  <p><a href="%s">Open Spreadsheet</a></p>
</div>`,
		programType, termName, year, coachName, sessionDay, sessionTime, sheetID, sheetURL)
}

// WelcomeHTML renders the email sent to a newly authorized portal user.
func WelcomeHTML(name, role string) string {
	if name == "" {
		name = "there"
	}
	if role == "" {
		role = "coach"
	}
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Welcome to the Empowered Hoops Term Tracker</h1>
  <p>Hi %s,</p>
  <p>Your %s account is ready. Sign in with your email address to view your
  term trackers and mark attendance.</p>
  <p>Best regards,<br><strong>Empowered Hoops Term Tracker System</strong></p>
</div>`, name, role)
}
