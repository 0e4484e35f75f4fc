package jobs

type JobType string

const (
	JobDocumentStatusChanged JobType = "document_status_changed"
	JobSendWelcome           JobType = "send_welcome"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobDocumentStatusChanged, JobSendWelcome:
		return true
	default:
		return false
	}
}
