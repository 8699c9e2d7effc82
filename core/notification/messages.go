package notification

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	"strconv"
	"strings"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
)

// FormatPhone normalizes stored numbers to E.164 with the +91 country
// code: bare 10-digit numbers and numbers stored with a leading "91" both
// become "+91...".
func FormatPhone(num string) string {
	num = strings.TrimSpace(num)
	switch {
	case num == "":
		return ""
	case strings.HasPrefix(num, "+91"):
		return num
	case strings.HasPrefix(num, "91"):
		return "+" + num
	case len(num) == 10:
		return "+91" + num
	}
	return "+" + num
}

func formatPct(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

func smsAlert(alert Alert, threshold float64) string {
	return fmt.Sprintf(
		"Alert: %s's attendance is %s%% (threshold: %s%%). Please contact the department for details. - %s",
		alert.Student.Name, formatPct(alert.Stats.AttendancePercentage), formatPct(threshold), core.Conf.AppName,
	)
}

func whatsAppAlert(class school.Class, alert Alert, threshold float64) string {
	var b strings.Builder
	b.WriteString("*LOW ATTENDANCE ALERT*\n\n")
	b.WriteString("Your ward's attendance has fallen below the required threshold. Please ensure regular classroom attendance.\n\n")
	b.WriteString("*Student Information:*\n")
	fmt.Fprintf(&b, "- Name: %s\n", alert.Student.Name)
	fmt.Fprintf(&b, "- Roll Number: %s\n", alert.Student.RollNumber)
	fmt.Fprintf(&b, "- Subject: %s\n", class.Name)
	fmt.Fprintf(&b, "- Class: %s\n\n", class.Code)
	b.WriteString("*Attendance Statistics:*\n")
	fmt.Fprintf(&b, "- Current Attendance: %s%%\n", formatPct(alert.Stats.AttendancePercentage))
	fmt.Fprintf(&b, "- Minimum Required: %s%%\n", formatPct(threshold))
	fmt.Fprintf(&b, "- Days Present: %d\n", alert.Stats.PresentDays)
	fmt.Fprintf(&b, "- Total Days: %d\n\n", alert.Stats.TotalDays)
	b.WriteString("If there are any medical or personal issues, kindly contact the department office.\n\n")
	fmt.Fprintf(&b, "_%s (Automated Message)_", core.Conf.AppName)
	return b.String()
}

var emailAlertTmpl = htmltmpl.Must(htmltmpl.New("low-attendance-alert").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #ff6b6b; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
    .content { background: #f9f9f9; padding: 20px; border-radius: 0 0 5px 5px; }
    .alert { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 15px 0; }
    .stats { display: grid; grid-template-columns: repeat(2, 1fr); gap: 10px; margin: 20px 0; }
    .stat-box { background: white; padding: 10px; border-radius: 5px; text-align: center; }
    .stat-label { color: #666; font-size: 12px; }
    .stat-value { font-size: 24px; font-weight: bold; color: #ff6b6b; }
    .footer { text-align: center; color: #999; font-size: 12px; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>Low Attendance Alert</h2>
      <p>Attendance below minimum threshold</p>
    </div>
    <div class="content">
      <h3>Dear Parent/Guardian,</h3>
      <p>We are writing to inform you that your ward's attendance has fallen below the acceptable threshold.</p>
      <div class="alert">
        <strong>Action Required</strong>
        <p>Please ensure regular classroom attendance.</p>
      </div>
      <h4>Student Information:</h4>
      <p>
        <strong>Name:</strong> {{.StudentName}}<br>
        <strong>Roll Number:</strong> {{.RollNumber}}<br>
        <strong>Subject:</strong> {{.ClassName}}<br>
        <strong>Class:</strong> {{.ClassCode}}
      </p>
      <h4>Attendance Statistics:</h4>
      <div class="stats">
        <div class="stat-box"><div class="stat-label">Current Attendance</div><div class="stat-value">{{.Percentage}}%</div></div>
        <div class="stat-box"><div class="stat-label">Minimum Required</div><div class="stat-value">{{.Threshold}}%</div></div>
        <div class="stat-box"><div class="stat-label">Days Present</div><div class="stat-value">{{.PresentDays}}</div></div>
        <div class="stat-box"><div class="stat-label">Total Days</div><div class="stat-value">{{.TotalDays}}</div></div>
      </div>
      <p>If there are any health or personal issues affecting attendance, please contact the department office.</p>
      <div class="footer">
        <p>This is an automated notification from {{.AppName}}.<br>Please do not reply to this email.</p>
      </div>
    </div>
  </div>
</body>
</html>`))

func emailAlert(target string, class school.Class, alert Alert, threshold float64) *core.EmailMessage {
	data := struct {
		StudentName string
		RollNumber  string
		ClassName   string
		ClassCode   string
		Percentage  string
		Threshold   string
		PresentDays int
		TotalDays   int
		AppName     string
	}{
		StudentName: alert.Student.Name,
		RollNumber:  alert.Student.RollNumber,
		ClassName:   class.Name,
		ClassCode:   class.Code,
		Percentage:  formatPct(alert.Stats.AttendancePercentage),
		Threshold:   formatPct(threshold),
		PresentDays: alert.Stats.PresentDays,
		TotalDays:   alert.Stats.TotalDays,
		AppName:     core.Conf.AppName,
	}

	var buff bytes.Buffer
	_ = emailAlertTmpl.Execute(&buff, data)

	return &core.EmailMessage{
		To:          []mail.Address{{Name: alert.Student.Name, Address: target}},
		Subject:     fmt.Sprintf("Low Attendance Alert - %s", alert.Student.Name),
		TextContent: smsAlert(alert, threshold),
		HTMLContent: buff.String(),
	}
}
