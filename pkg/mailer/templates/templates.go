package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Render returns subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	def, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := def.html.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return def.subject, def.text(data), buf.String(), nil
}

type definition struct {
	subject string
	text    func(data map[string]any) string
	html    *template.Template
}

var registry = map[string]definition{
	"verify_email": {
		subject: "Confirm your email address",
		text: func(data map[string]any) string {
			return fmt.Sprintf("Hi %v, confirm your email: %v", data["Name"], data["Link"])
		},
		html: template.Must(template.New("verify_email").Parse(`
<p>Hi {{.Name}},</p>
<p>Welcome to Reactivities. Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Confirm email</a></p>
<p>The link is valid for 24 hours. If you did not sign up, you can ignore this message.</p>
`)),
	},
	"welcome": {
		subject: "Welcome to Reactivities",
		text: func(data map[string]any) string {
			return fmt.Sprintf("Hi %v, your email is confirmed. See you at the next activity!", data["Name"])
		},
		html: template.Must(template.New("welcome").Parse(`
<p>Hi {{.Name}},</p>
<p>Your email is confirmed and your account is fully active.</p>
<p>Browse upcoming activities at <a href="{{.AppURL}}">{{.AppURL}}</a>.</p>
`)),
	},
}
