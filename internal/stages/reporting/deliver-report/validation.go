// internal/stages/reporting/deliver-report/validation.go
package deliverreport

import "interview-reports/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["to", "subject", "fileName", "size"],
  "properties": {
    "to": {"type": "string", "format": "email", "maxLength": 255},
    "subject": {"type": "string", "minLength": 1, "maxLength": 500},
    "fileName": {"type": "string", "minLength": 1, "pattern": "\\.xlsx$"},
    "size": {"type": "integer", "minimum": 1, "maximum": 10485760}
  }
}`)

// validateInput checks the request against inputSchema. SES rejects raw
// messages above 10 MB.
func validateInput(input *Input) (*validation.ValidationResult, error) {
	return inputSchema.Validate(map[string]interface{}{
		"to":       input.To,
		"subject":  input.Subject,
		"fileName": input.Attachment.FileName,
		"size":     len(input.Attachment.Content),
	})
}
