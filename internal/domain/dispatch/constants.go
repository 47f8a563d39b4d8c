package dispatch

const (
	StatusSent         = "sent"
	StatusNoAddress    = "no_address"
	StatusRenderFailed = "render_failed"
	StatusSendFailed   = "send_failed"

	DefaultSubject = "Payslip for %s"
	DefaultBody    = "Dear %s,\n\nPlease find attached your payslip for %s.\n\nBest regards,\nHR Team"

	AttachmentType = "application/pdf"
)
