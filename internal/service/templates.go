package service

import "github.com/clientpulse/clientpulse/internal/domain"

// MessageTemplate is a parameterized notification: subject plus HTML body.
type MessageTemplate struct {
	Subject string
	Body    string
}

// notificationTemplates are the built-in per-kind notifications sent to
// the account owner when no automation supplies its own message.
var notificationTemplates = map[domain.EventKind]MessageTemplate{
	domain.EventContractSigned: {
		Subject: "Contract signed: {{contract_title}}",
		Body: `<p>Hi {{user_name}},</p>
<p>{{client_name}} signed the contract <strong>{{contract_title}}</strong> on {{signed_date}}.</p>
<p>This is a good moment to kick off the project and send a welcome note to {{client_email}}.</p>`,
	},
	domain.EventPaymentReceived: {
		Subject: "Payment received: invoice {{invoice_number}}",
		Body: `<p>Hi {{user_name}},</p>
<p>{{client_name}} paid invoice <strong>{{invoice_number}}</strong> ({{invoice_amount}}) on {{paid_date}}.</p>
<p>Consider thanking them and proposing the next engagement.</p>`,
	},
	domain.EventProjectCompleted: {
		Subject: "Project completed: {{project_name}}",
		Body: `<p>Hi {{user_name}},</p>
<p>The project <strong>{{project_name}}</strong> for {{client_name}} is complete ({{budget_percentage}} of the {{budget_total}} budget used).</p>
<p>Now is the best time to ask for a testimonial or a referral.</p>`,
	},
	domain.EventClientCreated: {
		Subject: "New client: {{client_name}}",
		Body: `<p>Hi {{user_name}},</p>
<p><strong>{{client_name}}</strong>{{client_company}} was added to your client list.</p>
<p>Send a short welcome message to start the relationship on the right foot.</p>`,
	},
	domain.EventMeetingUpcoming: {
		Subject: "Upcoming meeting: {{meeting_title}}",
		Body: `<p>Hi {{user_name}},</p>
<p>Your meeting <strong>{{meeting_title}}</strong> with {{client_name}} is scheduled for {{meeting_date}}.</p>
<p>Review the client's latest activity before the call.</p>`,
	},
}

// NotificationTemplate returns the built-in template for an event kind.
func NotificationTemplate(kind domain.EventKind) (MessageTemplate, bool) {
	tmpl, ok := notificationTemplates[kind]
	return tmpl, ok
}
