package refdata

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// DefaultPayloadSelector locates the embedded reference payload.
const DefaultPayloadSelector = `script#formReferenceData`

// FromDocument reads the embedded JSON payload once. A missing payload yields
// an empty set; a malformed one is logged and also yields an empty set so the
// page keeps working with placeholder-only selects.
func FromDocument(doc *dom.Document, selector string, logger *slog.Logger) Set {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = DefaultPayloadSelector
	}

	node := doc.Find(selector).First()
	if node.Length() == 0 {
		logger.Debug("reference payload not present", "selector", selector)
		return Set{}
	}

	set, err := Parse([]byte(node.Text()))
	if err != nil {
		logger.Warn("reference payload ignored", "selector", selector, "error", err)
		return Set{}
	}
	logger.Debug("reference payload loaded", "selector", selector, "keys", set.Keys())
	return set
}
