package connectors

import "github.com/kianwoon/report-population-tool/internal"

// MailConnector fetches raw messages from a mailbox. Implementations
// filter to recent, unseen mail; the pipeline dedupes on provider plus
// message id so overlap is harmless.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
