package dispatch

import (
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// InlineImage is one base64-encoded image attached to a request
type InlineImage struct {
	DataBase64 string `json:"data"`
	MIMEType   string `json:"mimeType"`
}

// Envelope is the per-call request. Images precede the prompt in the provider
// content parts, in input order; structured callers set ResponseSchema plus a
// JSON mime hint, free-text callers leave both unset.
type Envelope struct {
	Model            string
	Prompt           string
	Images           []InlineImage
	ResponseSchema   *schema.Object
	ResponseMIMEType string
}

// Validate rejects envelopes with nothing to send; the provider could only
// answer them with an error.
func (e *Envelope) Validate() *errors.APIError {
	if e.Prompt == "" && len(e.Images) == 0 {
		return errors.NewValidationError("envelope requires a prompt or at least one inline image")
	}
	for i, img := range e.Images {
		if img.DataBase64 == "" {
			return errors.NewValidationError("inline image has empty payload")
		}
		if img.MIMEType == "" {
			e.Images[i].MIMEType = "image/png"
		}
	}
	return nil
}
