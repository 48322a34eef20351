package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

// Kind is the hiring decision a notification reports.
type Kind string

const (
	KindAcceptance Kind = "acceptance"
	KindRejection  Kind = "rejection"
)

// fallbackSignature signs mail when no sender name is known.
const fallbackSignature = "The Recruitment Team"

// Request is a fully rendered notification, ready for Dispatch.
type Request struct {
	To            string
	Subject       string
	HTML          string
	Text          string
	Kind          Kind
	JobTitle      string
	SenderName    string
	SenderAddress string
}

type templateData struct {
	JobTitle      string
	SenderName    string
	SenderAddress string
	Accent        htmltemplate.CSS
}

// {{.JobTitle}}, {{.SenderName}} and {{.SenderAddress}} come from user input
// and are auto-escaped by html/template.
const signatureHTML = `{{define "signature"}}<p style="margin-top:30px; font-size:0.9em; color:#666;">
        Best regards,<br>
        {{- if .SenderName}}
        HR {{.SenderName}}
        {{- if .SenderAddress}}<br><a href="mailto:{{.SenderAddress}}" style="color:{{.Accent}};text-decoration:none;">{{.SenderAddress}}</a>{{end}}
        {{- else}}
        ` + fallbackSignature + `
        {{- end}}
      </p>{{end}}`

var acceptanceHTML = htmltemplate.Must(htmltemplate.New("acceptance").Parse(signatureHTML + `
    <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
      <h2 style="color: #28a745;">🎉 Congratulations!</h2>
      <p>We’re delighted to inform you that your application for <strong>{{.JobTitle}}</strong> has been successful!</p>
      <p>The HR team will contact you soon regarding next steps.</p>
      {{template "signature" .}}
    </div>
`))

var rejectionHTML = htmltemplate.Must(htmltemplate.New("rejection").Parse(signatureHTML + `
    <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
      <h2 style="color: #dc3545;">😔 Application Update</h2>
      <p>Thank you for applying for the <strong>{{.JobTitle}}</strong> role.</p>
      <p>Unfortunately, we won’t be moving forward with your application at this time.</p>
      <p>We truly appreciate your effort and encourage you to apply again in the future.</p>
      {{template "signature" .}}
    </div>
`))

const signatureText = `{{define "signature"}}Best regards,
{{if .SenderName}}HR {{.SenderName}}{{if .SenderAddress}}
{{.SenderAddress}}{{end}}{{else}}` + fallbackSignature + `{{end}}
{{end}}`

var acceptanceText = texttemplate.Must(texttemplate.New("acceptance").Parse(signatureText + `Congratulations!

We're delighted to inform you that your application for {{.JobTitle}} has been successful!
The HR team will contact you soon regarding next steps.

{{template "signature" .}}`))

var rejectionText = texttemplate.Must(texttemplate.New("rejection").Parse(signatureText + `Application Update

Thank you for applying for the {{.JobTitle}} role.
Unfortunately, we won't be moving forward with your application at this time.
We truly appreciate your effort and encourage you to apply again in the future.

{{template "signature" .}}`))

// RenderAcceptance builds the "you've been selected" email. senderName and
// senderAddress may be empty.
func RenderAcceptance(candidateAddress, jobTitle, senderName, senderAddress string) Request {
	data := templateData{JobTitle: jobTitle, SenderName: senderName, SenderAddress: senderAddress, Accent: "#28a745"}
	return Request{
		To:            candidateAddress,
		Subject:       fmt.Sprintf("Congratulations! You've been selected for the %s role.", jobTitle),
		HTML:          execute(acceptanceHTML, data),
		Text:          execute(acceptanceText, data),
		Kind:          KindAcceptance,
		JobTitle:      jobTitle,
		SenderName:    senderName,
		SenderAddress: senderAddress,
	}
}

// RenderRejection builds the application update email for a declined
// candidate. senderName and senderAddress may be empty.
func RenderRejection(candidateAddress, jobTitle, senderName, senderAddress string) Request {
	data := templateData{JobTitle: jobTitle, SenderName: senderName, SenderAddress: senderAddress, Accent: "#dc3545"}
	return Request{
		To:            candidateAddress,
		Subject:       fmt.Sprintf("Update on your application for %s", jobTitle),
		HTML:          execute(rejectionHTML, data),
		Text:          execute(rejectionText, data),
		Kind:          KindRejection,
		JobTitle:      jobTitle,
		SenderName:    senderName,
		SenderAddress: senderAddress,
	}
}

// Render dispatches to RenderAcceptance or RenderRejection by kind.
func Render(kind Kind, candidateAddress, jobTitle, senderName, senderAddress string) (Request, error) {
	switch kind {
	case KindAcceptance:
		return RenderAcceptance(candidateAddress, jobTitle, senderName, senderAddress), nil
	case KindRejection:
		return RenderRejection(candidateAddress, jobTitle, senderName, senderAddress), nil
	}
	return Request{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, data templateData) string {
	var buf bytes.Buffer
	// The templates are static and the data is plain strings, so Execute
	// cannot fail short of a programming error.
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("notification: rendering template: %v", err))
	}
	return buf.String()
}
