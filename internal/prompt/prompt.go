// Package prompt composes the final text sent to the generative service.
package prompt

import (
	"fmt"
	"os"
)

// historyHeader separates the operator-maintained instructions from the
// generated customer digest.
const historyHeader = "Зээлдэгчийн түүхэн мэдээлэл:"

// Compose reads the instruction template at path and appends the digest.
// The template is read fresh on every call so operators can edit it without
// a restart. A load failure is fatal for the request.
func Compose(path, digest string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	return string(b) + "\n\n" + historyHeader + "\n" + digest + "\n", nil
}
