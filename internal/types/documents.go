package types

// TailoredDocuments holds the output of the customization step for one
// selected listing. The base resume is never modified; TailoredResume is a
// derived copy.
type TailoredDocuments struct {
	TailoredResume string `json:"tailored_resume"`
	CoverLetter    string `json:"cover_letter"`

	// Fallback is set when the completion provider was unavailable and the
	// tailored resume is the original text returned unchanged.
	Fallback bool `json:"fallback,omitempty"`
}

// Candidate identifies the person the documents are composed for.
// Values come from configuration or from the resume header line.
type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
