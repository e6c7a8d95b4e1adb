package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractODT extracts text from OpenDocument text bytes.
// ODT stores paragraphs as plain <text:p> elements, which cat handles
// reliably (unlike DOCX runs, which we parse ourselves in docx.go).
func extractODT(content []byte) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract ODT: %w", err)
	}
	return text, nil
}
