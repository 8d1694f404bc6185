// Package intake wires a quote/contact pipeline for an agency site: a
// multi-step wizard state machine on the client side and an anti-abuse
// submission gateway on the server side, joined by a JSON contract. The root
// package re-exports the pieces most integrations need; the full surface
// lives under pkg/.
package intake

import (
	"net/http"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/gateway"
	"github.com/goliatone/go-intake/pkg/notify"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// Catalog aliases the package/feature reference data.
type Catalog = catalog.Catalog

// Wizard aliases the form state machine.
type Wizard = wizard.Wizard

// Submission aliases the shaped content handed to notifiers.
type Submission = gateway.Submission

// Notifier aliases the gateway's notification collaborator boundary.
type Notifier = gateway.Notifier

// DefaultCatalog returns the embedded English catalog.
func DefaultCatalog() *catalog.Catalog {
	return catalog.Default()
}

// NewWizard constructs a wizard over the catalog and submitter.
func NewWizard(cat *catalog.Catalog, submitter wizard.Submitter, options ...wizard.Option) (*wizard.Wizard, error) {
	return wizard.New(cat, submitter, options...)
}

// NewGateway builds the submission gateway handler.
func NewGateway(options ...gateway.OptionFn) (http.Handler, error) {
	return gateway.New(options...)
}

// RegisterGateway mounts the gateway under basePath on the mux.
func RegisterGateway(mux gateway.Mux, basePath string, options ...gateway.OptionFn) (string, error) {
	return gateway.RegisterRoutes(mux, basePath, options...)
}

// NewEmailNotifier builds the transactional email collaborator over a sender.
func NewEmailNotifier(sender notify.Sender, from, to string, options ...notify.EmailOption) (*notify.EmailNotifier, error) {
	return notify.NewEmailNotifier(sender, from, to, options...)
}
