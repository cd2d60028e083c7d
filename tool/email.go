package tool

import (
	"context"
)

// SendEmailArgs are the arguments of the send_email tool.
type SendEmailArgs struct {
	To      string `json:"to" desc:"Recipient email address" required:"true"`
	Subject string `json:"subject" desc:"Email subject line" required:"true"`
	Body    string `json:"body" desc:"Email body" required:"true"`
}

const emailPreviewLen = 100

// NewSendEmailTool creates the send_email tool. Nothing is sent: the message
// is printed to the reporter and the call always reports status "sent".
func NewSendEmailTool(rep *Reporter) Registration {
	if rep == nil {
		rep = NewReporter(nil)
	}

	return Func("send_email", "Send an email to a recipient.",
		resultFunc(func(ctx context.Context, args SendEmailArgs) Result {
			rep.Call(ctx, "Sending email to: %s", args.To)
			rep.Call(ctx, "  Subject: %s", args.Subject)
			rep.Call(ctx, "  Body: %s", preview(args.Body, emailPreviewLen))
			rep.Result(ctx, "⚠️  EMAIL SENT to %s", args.To)

			return Result{"status": "sent", "to": args.To, "subject": args.Subject}
		}))
}

// preview truncates s to n runes, marking the cut with "...".
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
