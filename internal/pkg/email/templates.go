package email

import (
	"bytes"
	"html/template"
)

// PeriodSubject is the subject line of the exam period notice.
const PeriodSubject = "Notificare: S-a configurat perioada de examene"

var periodTmpl = template.Must(template.New("period").Parse(`<html>
  <body>
    <h2>Notificare: S-a configurat perioada de examene</h2>
    <p>Bună ziua,</p>
    <p>Vă informăm că perioada de examene a fost configurată în aplicația TWAAOS:</p>
    <ul>
      <li><strong>Data de început:</strong> {{.Start}}</li>
      <li><strong>Data de sfârșit:</strong> {{.End}}</li>
    </ul>
    <p>Puteți acum să selectați datele când doriți să programați examenele dumneavoastră.</p>
    <p>Vă rugăm să vă autentificați în aplicație pentru a accesa funcționalitățile de programare a examenelor.</p>
    <p>Acesta este un mesaj automat. Vă rugăm să nu răspundeți la acest email.</p>
    <p>Cu stimă,<br>Sistemul TWAAOS</p>
  </body>
</html>`))

var proposalTmpl = template.Must(template.New("proposal").Parse(`<html>
  <body>
    <h2>Propunere nouă de examen</h2>
    <p>Grupa <strong>{{.Group}}</strong> a propus o dată pentru examenul la <strong>{{.Subject}}</strong>.</p>
    {{if .Date}}<p><strong>Data propusă:</strong> {{.Date}}</p>{{end}}
    <p>Vă rugăm să vă autentificați în aplicația TWAAOS pentru a aproba sau respinge propunerea.</p>
    <p>Cu stimă,<br>Sistemul TWAAOS</p>
  </body>
</html>`))

var decisionTmpl = template.Must(template.New("decision").Parse(`<html>
  <body>
    <h2>Examenul la {{.Subject}} a fost {{.Verb}}</h2>
    {{if .Date}}<p><strong>Data:</strong> {{.Date}}</p>{{end}}
    {{if .Message}}<p><strong>Mesaj de la cadrul didactic:</strong> {{.Message}}</p>{{end}}
    <p>Cu stimă,<br>Sistemul TWAAOS</p>
  </body>
</html>`))

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// PeriodNotice builds the message announcing a configured exam period.
func PeriodNotice(toName, toEmail, start, end string) Message {
	return Message{
		ToName:      toName,
		ToEmail:     toEmail,
		Subject:     PeriodSubject,
		HTMLContent: render(periodTmpl, map[string]string{"Start": start, "End": end}),
		TextContent: "Perioada de examene: " + start + " - " + end,
	}
}

// ProposalNotice builds the message telling a teacher that a group proposed an exam date.
func ProposalNotice(toName, toEmail, subject, group, date string) Message {
	return Message{
		ToName:      toName,
		ToEmail:     toEmail,
		Subject:     "Propunere examen: " + subject,
		HTMLContent: render(proposalTmpl, map[string]string{"Subject": subject, "Group": group, "Date": date}),
		TextContent: "Grupa " + group + " a propus o dată pentru examenul la " + subject,
	}
}

// DecisionNotice builds the message sent to a group after a teacher approves or rejects an exam.
func DecisionNotice(toName, toEmail, subject, date, message string, approved bool) Message {
	verb := "respins"
	if approved {
		verb = "aprobat"
	}
	return Message{
		ToName:      toName,
		ToEmail:     toEmail,
		Subject:     "Examen " + verb + ": " + subject,
		HTMLContent: render(decisionTmpl, map[string]string{"Subject": subject, "Verb": verb, "Date": date, "Message": message}),
		TextContent: "Examenul la " + subject + " a fost " + verb + ". " + message,
	}
}
