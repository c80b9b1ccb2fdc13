package persist

import (
	"log/slog"
)

// Updater records mutation verbs against one document and commits them
// through atomic contexts. It is single-goroutine state, like the document
// it wraps.
type Updater struct {
	doc       Document
	coll      Collection
	config    Config
	operators *OperatorRegistry
	logger    *slog.Logger
	metrics   *Metrics

	// session is non-nil only while inside Atomically.
	session *Session
}

// NewUpdater creates an Updater over a document and its owning collection,
// using the default operator registry.
func NewUpdater(doc Document, coll Collection, config Config) *Updater {
	config.validate()
	return &Updater{
		doc:       doc,
		coll:      coll,
		config:    config,
		operators: DefaultOperators(),
		logger:    slog.Default(),
	}
}

// WithOperators replaces the operator registry. Returns the Updater.
func (u *Updater) WithOperators(registry *OperatorRegistry) *Updater {
	if registry != nil {
		u.operators = registry
	}
	return u
}

// WithLogger replaces the logger. A nil logger restores slog.Default().
func (u *Updater) WithLogger(logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	u.logger = logger
	return u
}

// WithMetrics attaches commit metrics. Returns the Updater.
func (u *Updater) WithMetrics(metrics *Metrics) *Updater {
	u.metrics = metrics
	return u
}

// Document returns the wrapped document.
func (u *Updater) Document() Document {
	return u.doc
}

// InAtomicBlock reports whether an atomic context is currently open, i.e.
// mutation verbs are being buffered rather than flushed immediately. Exposed
// for collaborators (change tracking, callbacks) to query.
func (u *Updater) InAtomicBlock() bool {
	return u.session != nil && u.session.Active()
}
