package jobs

// DocumentStatusChangedPayload notifies a student that one of their document
// requests moved to a new status. Payloads stay ID-based; the worker loads
// current details from storage.
type DocumentStatusChangedPayload struct {
	DocumentID string `json:"documentId"`
	UserID     string `json:"userId"`
	Status     string `json:"status"`
	RequestID  string `json:"requestId,omitempty"` // correlation
}

// SendWelcomePayload greets a freshly registered student.
type SendWelcomePayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Nome   string `json:"nome"`
}
