package service

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email is a rendered message ready for the SMTP dialer.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// RecordingEmailData holds data for the recording invitation templates.
type RecordingEmailData struct {
	DoctorName    string
	RecordingLink string
}

// BuildRecordingEmail creates the one-time recording invitation with both
// HTML and text bodies.
func BuildRecordingEmail(data RecordingEmailData) Email {
	return Email{
		Subject:  "Record your introduction video",
		TextBody: buildRecordingText(data),
		HTMLBody: buildRecordingHTML(data),
	}
}

func buildRecordingText(data RecordingEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello Dr. %s,\n\n", data.DoctorName))
	buf.WriteString("Please record your introduction video using the link below:\n")
	buf.WriteString(data.RecordingLink + "\n\n")
	buf.WriteString("The recording takes only a few minutes and is published on your profile once finished.\n")
	return buf.String()
}

func buildRecordingHTML(data RecordingEmailData) string {
	tmpl := template.Must(template.New("recording").Parse(recordingHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const recordingHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Record your introduction video</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #111827;">Hello Dr. {{.DoctorName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; text-align: center;">
              <p style="margin: 0 0 24px; font-size: 15px; color: #374151;">Please record your introduction video. It takes only a few minutes and is published on your profile once finished.</p>
              <a href="{{.RecordingLink}}" style="display: inline-block; padding: 12px 24px; background-color: #4f46e5; color: #ffffff; border-radius: 6px; font-size: 15px; font-weight: 600; text-decoration: none;">Start recording</a>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
